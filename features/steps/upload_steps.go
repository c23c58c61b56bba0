//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"clip-remix/cmd"
	"clip-remix/infrastructure/drive"

	"github.com/cucumber/godog"
	googledrive "google.golang.org/api/drive/v3"
)

const uploadFolderID = "remix-folder"

// memoryDrive is an in-memory Drive folder behind the real drive.Client
type memoryDrive struct {
	files       []*googledrive.File
	permissions map[string][]*googledrive.Permission
	limit       int64
	usage       int64
	nextID      int
	clock       time.Time
}

func newMemoryDrive() *memoryDrive {
	return &memoryDrive{
		permissions: make(map[string][]*googledrive.Permission),
		nextID:      1,
		clock:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memoryDrive) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*googledrive.File, error) {
	var out []*googledrive.File
	name, byName := queryValue(query, "name = '")
	mime, byMime := queryValue(query, "mimeType = '")
	for _, f := range m.files {
		if byName && f.Name != name {
			continue
		}
		if byMime && f.MimeType != mime {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if orderBy == "createdTime desc" {
			return out[i].CreatedTime > out[j].CreatedTime
		}
		return out[i].CreatedTime < out[j].CreatedTime
	})
	return out, nil
}

func queryValue(query, prefix string) (string, bool) {
	start := strings.Index(query, prefix)
	if start < 0 {
		return "", false
	}
	start += len(prefix)
	end := strings.Index(query[start:], "'")
	if end < 0 {
		return "", false
	}
	return query[start : start+end], true
}

func (m *memoryDrive) GetAbout(ctx context.Context, fields string) (*googledrive.About, error) {
	return &googledrive.About{
		StorageQuota: &googledrive.AboutStorageQuota{Limit: m.limit, Usage: m.usage},
	}, nil
}

func (m *memoryDrive) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*googledrive.File, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}
	if m.limit > 0 && m.usage+info.Size() > m.limit {
		return nil, fmt.Errorf("googleapi: Error 403: The user's Drive storage quota has been exceeded")
	}
	f := m.add(fileName, mimeType, info.Size(), m.clock)
	return f, nil
}

func (m *memoryDrive) add(name, mimeType string, size int64, created time.Time) *googledrive.File {
	f := &googledrive.File{
		Id:          fmt.Sprintf("file-%d", m.nextID),
		Name:        name,
		MimeType:    mimeType,
		Size:        size,
		CreatedTime: created.Format(time.RFC3339),
		Parents:     []string{uploadFolderID},
	}
	m.nextID++
	m.files = append(m.files, f)
	m.usage += size
	return f
}

func (m *memoryDrive) CreatePermission(ctx context.Context, fileID string, permission *googledrive.Permission) error {
	m.permissions[fileID] = append(m.permissions[fileID], permission)
	return nil
}

func (m *memoryDrive) DeleteFile(ctx context.Context, fileID string) error {
	for i, f := range m.files {
		if f.Id == fileID {
			m.usage -= f.Size
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("googleapi: Error 404: File not found: %s", fileID)
}

func (m *memoryDrive) named(name string) []*googledrive.File {
	var out []*googledrive.File
	for _, f := range m.files {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

type uploadContext struct {
	drive  *memoryDrive
	tmpDir string
	path   string
	output *bytes.Buffer
	err    error
}

var SharedUploadContext = &uploadContext{}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedUploadContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "clip-remix-upload-*")
		if err != nil {
			return c, err
		}
		testCtx.drive = newMemoryDrive()
		testCtx.tmpDir = tmpDir
		testCtx.path = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tmpDir != "" {
			os.RemoveAll(testCtx.tmpDir)
		}
		return c, nil
	})

	ctx.Step(`^a rendered remix "([^"]*)" of (\d+) MB$`, testCtx.aRenderedRemixOfMB)
	ctx.Step(`^the Drive account has (\d+) MB of storage with (\d+) MB used$`, testCtx.theDriveAccountHasStorage)
	ctx.Step(`^the Drive folder contains:$`, testCtx.theDriveFolderContains)
	ctx.Step(`^I upload the remix$`, testCtx.iUploadTheRemix)
	ctx.Step(`^I upload the remix freeing space$`, testCtx.iUploadTheRemixFreeingSpace)
	ctx.Step(`^I upload "([^"]*)"$`, testCtx.iUploadPath)
	ctx.Step(`^the upload should succeed$`, testCtx.theUploadShouldSucceed)
	ctx.Step(`^the upload should fail with "([^"]*)"$`, testCtx.theUploadShouldFailWith)
	ctx.Step(`^the Drive folder should contain (\d+) files? named "([^"]*)"$`, testCtx.theDriveFolderShouldContainNamed)
	ctx.Step(`^"([^"]*)" should be shared with anyone who has the link$`, testCtx.shouldBeSharedWithAnyone)
	ctx.Step(`^the upload output should contain "([^"]*)"$`, testCtx.theUploadOutputShouldContain)
}

func megabytesToBytes(mb int) int64 {
	return int64(mb) * 1024 * 1024
}

func (u *uploadContext) aRenderedRemixOfMB(name string, mb int) error {
	u.path = filepath.Join(u.tmpDir, name)
	f, err := os.Create(u.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Truncate(megabytesToBytes(mb))
}

func (u *uploadContext) theDriveAccountHasStorage(total, used int) error {
	u.drive.limit = megabytesToBytes(total)
	u.drive.usage = megabytesToBytes(used)
	return nil
}

// theDriveFolderContains adds files to the folder; their sizes count toward the used storage
func (u *uploadContext) theDriveFolderContains(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		mb, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("bad size %q: %w", row.Cells[1].Value, err)
		}
		created, err := time.Parse("2006-01-02", row.Cells[2].Value)
		if err != nil {
			return fmt.Errorf("bad date %q: %w", row.Cells[2].Value, err)
		}
		size := megabytesToBytes(mb)
		u.drive.add(row.Cells[0].Value, "video/mp4", size, created)
		// the used figure in the background already includes these files
		u.drive.usage -= size
	}
	return nil
}

func (u *uploadContext) run(path string, freeSpace bool) error {
	client, err := drive.NewClient(context.Background(), "", drive.WithDriveService(u.drive))
	if err != nil {
		return err
	}
	u.err = cmd.RunUploadWithDependencies(context.Background(), client, uploadFolderID, path, freeSpace, u.output)
	return nil
}

func (u *uploadContext) iUploadTheRemix() error {
	return u.run(u.path, false)
}

func (u *uploadContext) iUploadTheRemixFreeingSpace() error {
	return u.run(u.path, true)
}

func (u *uploadContext) iUploadPath(name string) error {
	return u.run(filepath.Join(u.tmpDir, name), false)
}

func (u *uploadContext) theUploadShouldSucceed() error {
	if u.err != nil {
		return fmt.Errorf("upload failed: %w\noutput:\n%s", u.err, u.output.String())
	}
	if !strings.Contains(u.output.String(), "Remix uploaded successfully!") {
		return fmt.Errorf("expected success message, got:\n%s", u.output.String())
	}
	return nil
}

func (u *uploadContext) theUploadShouldFailWith(text string) error {
	if u.err == nil || !strings.Contains(u.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, u.err)
	}
	return nil
}

func (u *uploadContext) theDriveFolderShouldContainNamed(n int, name string) error {
	if got := len(u.drive.named(name)); got != n {
		return fmt.Errorf("expected %d files named %q, found %d", n, name, got)
	}
	return nil
}

func (u *uploadContext) shouldBeSharedWithAnyone(name string) error {
	files := u.drive.named(name)
	if len(files) == 0 {
		return fmt.Errorf("%q is not in the folder", name)
	}
	for _, p := range u.drive.permissions[files[0].Id] {
		if p.Type == "anyone" && p.Role == "reader" {
			return nil
		}
	}
	return fmt.Errorf("%q has no public reader permission", name)
}

func (u *uploadContext) theUploadOutputShouldContain(text string) error {
	if !strings.Contains(u.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, u.output.String())
	}
	return nil
}
