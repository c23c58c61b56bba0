//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clip-remix/cmd"
	"clip-remix/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	if response == "<default>" {
		return defaultValue, nil
	}
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, testCtx.iRunTheSetupCommandWithConfirmationAndInputs)
	ctx.Step(`^I run the setup command expecting failure with inputs:$`, testCtx.iRunTheSetupCommandExpectingFailureWithInputs)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^no config file should exist$`, testCtx.noConfigFileShouldExist)
	ctx.Step(`^the config should have input_directory "([^"]*)"$`, testCtx.theConfigShouldHaveInputDirectory)
	ctx.Step(`^the config should have output_directory "([^"]*)"$`, testCtx.theConfigShouldHaveOutputDirectory)
	ctx.Step(`^the config should have max_clip_length (\d+(?:\.\d+)?)$`, testCtx.theConfigShouldHaveMaxClipLength)
	ctx.Step(`^the config should have max_total_length (\d+(?:\.\d+)?)$`, testCtx.theConfigShouldHaveMaxTotalLength)
	ctx.Step(`^the config should have remix_folder_id "([^"]*)"$`, testCtx.theConfigShouldHaveRemixFolderID)
	ctx.Step(`^the config should have email recipients "([^"]*)"$`, testCtx.theConfigShouldHaveEmailRecipients)
	ctx.Step(`^the config should have sender address "([^"]*)"$`, testCtx.theConfigShouldHaveSenderAddress)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
	ctx.Step(`^the setup error should mention "([^"]*)"$`, testCtx.theSetupErrorShouldMention)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `paths:
  input_directory: "/original/clips"
remix:
  max_clip_length: 4
  max_total_length: 40
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandExpectingFailureWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms), s.configPath, s.output)
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter([]string{}, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if !confirm {
		s.setupCancelled = strings.Contains(s.output.String(), "Setup cancelled.")
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmationAndInputs(confirmation string, table *godog.Table) error {
	confirm := strings.ToLower(confirmation) == "y"
	inputs, confirms := parseInputTable(table)

	allConfirms := append([]bool{confirm}, confirms...)
	prompter := NewMockPrompter(inputs, allConfirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

// parseInputTable splits a prompt/value table into text answers and yes/no answers.
// Prompts starting with "publish" or "email links" are yes/no questions.
func parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		if strings.HasPrefix(prompt, "publish") || strings.HasPrefix(prompt, "email links") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) noConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); err == nil {
		return fmt.Errorf("config file unexpectedly exists at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) load() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) theConfigShouldHaveInputDirectory(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Paths.InputDirectory != expected {
		return fmt.Errorf("expected input_directory %q, got %q", expected, cfg.Paths.InputDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOutputDirectory(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Paths.OutputDirectory != expected {
		return fmt.Errorf("expected output_directory %q, got %q", expected, cfg.Paths.OutputDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveMaxClipLength(expected float64) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Remix.MaxClipLength != expected {
		return fmt.Errorf("expected max_clip_length %v, got %v", expected, cfg.Remix.MaxClipLength)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveMaxTotalLength(expected float64) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Remix.MaxTotalLength != expected {
		return fmt.Errorf("expected max_total_length %v, got %v", expected, cfg.Remix.MaxTotalLength)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveRemixFolderID(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Google.RemixFolderID != expected {
		return fmt.Errorf("expected remix_folder_id %q, got %q", expected, cfg.Google.RemixFolderID)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}

func (s *setupContext) theSetupErrorShouldMention(text string) error {
	if s.err == nil || !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got %v", text, s.err)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveEmailRecipients(expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if got := strings.Join(cfg.Email.Recipients, "; "); got != expected {
		return fmt.Errorf("expected recipients %q, got %q", expected, got)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveSenderAddress(expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Email.FromAddress != expected {
		return fmt.Errorf("expected sender address %q, got %q", expected, cfg.Email.FromAddress)
	}
	return nil
}
