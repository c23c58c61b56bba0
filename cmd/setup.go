package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clip-remix/domain/notification"
	"clip-remix/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates the configuration file.

This command guides you through choosing the folder to remix, the default
clip and remix lengths, optional Google Drive publishing and the people who
receive share links by email.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(configPath)), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to clip-remix setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	// Paths section
	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	// Remix section
	if err := promptRemix(prompter, cfg); err != nil {
		return err
	}

	// Google section (includes email)
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	input, err := prompter.Input("Which folder holds the clips to remix?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input directory is required")
	}
	cfg.Paths.InputDirectory = strings.TrimSpace(input)

	output, err := prompter.Input("Where should remixes be saved? (empty for current directory)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.Paths.OutputDirectory = strings.TrimSpace(output)

	return nil
}

func promptRemix(prompter Prompter, cfg *config.Config) error {
	clip, err := promptLength(prompter, "Max clip length (seconds):", 0, cfg.Remix.MaxClipLength)
	if err != nil {
		return err
	}
	cfg.Remix.MaxClipLength = clip

	total, err := promptLength(prompter, "Max total length (seconds):", 0, cfg.Remix.MaxTotalLength)
	if err != nil {
		return err
	}
	cfg.Remix.MaxTotalLength = total

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Publish remixes to Google Drive?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if !enable {
		return nil
	}

	credentials, err := prompter.Input("Path to Google credentials file?", "config/credentials.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if credentials == "" {
		credentials = "config/credentials.json"
	}
	cfg.Google.CredentialsFile = credentials

	folder, err := prompter.Input("Google Drive folder ID for remixes?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Google.RemixFolderID = folder

	return promptEmail(prompter, cfg)
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Email remix links to friends after uploading?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	if !enable {
		return nil
	}

	// From details
	from, err := prompter.Input("Send from which Gmail address?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	sender, err := notification.ParseRecipient(strings.TrimSpace(from))
	if err != nil {
		return fmt.Errorf("a valid sender address is required: %w", err)
	}
	cfg.Email.FromAddress = sender.Address
	cfg.Email.FromName = sender.Name

	name, err := prompter.Input("Sign emails as?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	cfg.Email.SenderName = strings.TrimSpace(name)

	// Default recipients
	to, err := prompter.Input("Who should receive the links? (comma separated)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}
	recipients, err := notification.ParseRecipients([]string{strings.TrimSpace(to)})
	if err != nil {
		return fmt.Errorf("at least one valid recipient is required: %w", err)
	}
	cfg.Email.Recipients = make([]string, len(recipients))
	for i, r := range recipients {
		cfg.Email.Recipients[i] = r.String()
	}

	return nil
}
