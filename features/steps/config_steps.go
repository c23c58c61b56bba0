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
	"clip-remix/domain/remix"
	"clip-remix/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = ""
		testCtx.cfg = nil
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

	ctx.Step(`^a config file "([^"]*)" containing:$`, testCtx.aConfigFileContaining)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, testCtx.iAttemptToLoadTheConfiguration)
	ctx.Step(`^the max clip length should be (\d+(?:\.\d+)?)$`, testCtx.theMaxClipLengthShouldBe)
	ctx.Step(`^the max total length should be (\d+(?:\.\d+)?)$`, testCtx.theMaxTotalLengthShouldBe)
	ctx.Step(`^the extensions should be "([^"]*)"$`, testCtx.theExtensionsShouldBe)
	ctx.Step(`^the probe backend should be "([^"]*)"$`, testCtx.theProbeBackendShouldBe)
	ctx.Step(`^I should receive a configuration load error$`, testCtx.iShouldReceiveAConfigurationLoadError)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^I run config get "([^"]*)"$`, testCtx.iRunConfigGet)
	ctx.Step(`^I run config show$`, testCtx.iRunConfigShow)
	ctx.Step(`^the config command should succeed$`, testCtx.theConfigCommandShouldSucceed)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, testCtx.theConfigCommandShouldFailWith)
	ctx.Step(`^the config command should fail with a configuration error$`, testCtx.theConfigCommandShouldFailWithAConfigurationError)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
	ctx.Step(`^the saved config should have "([^"]*)" equal to "([^"]*)"$`, testCtx.theSavedConfigShouldHave)
}

func (c *configContext) aConfigFileContaining(name string, body *godog.DocString) error {
	c.configPath = filepath.Join(c.tempDir, name)
	return os.WriteFile(c.configPath, []byte(body.Content), 0644)
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iAttemptToLoadTheConfiguration() error {
	c.cfg, c.err = config.Load(c.configPath)
	return nil
}

func (c *configContext) theMaxClipLengthShouldBe(expected float64) error {
	if c.cfg.Remix.MaxClipLength != expected {
		return fmt.Errorf("expected max clip length %v, got %v", expected, c.cfg.Remix.MaxClipLength)
	}
	return nil
}

func (c *configContext) theMaxTotalLengthShouldBe(expected float64) error {
	if c.cfg.Remix.MaxTotalLength != expected {
		return fmt.Errorf("expected max total length %v, got %v", expected, c.cfg.Remix.MaxTotalLength)
	}
	return nil
}

func (c *configContext) theExtensionsShouldBe(expected string) error {
	got := strings.Join(c.cfg.NormalizedExtensions(), ",")
	if got != expected {
		return fmt.Errorf("expected extensions %q, got %q", expected, got)
	}
	return nil
}

func (c *configContext) theProbeBackendShouldBe(expected string) error {
	if c.cfg.Probe.Backend != expected {
		return fmt.Errorf("expected probe backend %q, got %q", expected, c.cfg.Probe.Backend)
	}
	return nil
}

func (c *configContext) iShouldReceiveAConfigurationLoadError() error {
	if c.err == nil {
		return fmt.Errorf("expected an error loading %s", c.configPath)
	}
	return nil
}

func (c *configContext) current() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *configContext) iRunConfigSet(key, value string) error {
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) iRunConfigGet(key string) error {
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, c.output)
	return nil
}

func (c *configContext) iRunConfigShow() error {
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigShowWithDependencies(cfg, c.configPath, c.output)
	return nil
}

func (c *configContext) theConfigCommandShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got: %w", c.err)
	}
	return nil
}

func (c *configContext) theConfigCommandShouldFailWith(text string) error {
	if c.err == nil || !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, c.err)
	}
	return nil
}

func (c *configContext) theConfigCommandShouldFailWithAConfigurationError() error {
	if !remix.IsConfigurationError(c.err) {
		return fmt.Errorf("expected a configuration error, got %v", c.err)
	}
	return nil
}

func (c *configContext) theConfigOutputShouldContain(text string) error {
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func (c *configContext) theSavedConfigShouldHave(key, expected string) error {
	saved, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	got, err := config.NewConfigManager(saved, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s = %q after reload, got %q", key, expected, got)
	}
	return nil
}
