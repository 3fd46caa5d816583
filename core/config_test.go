// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/gpengine/core"
)

func writeFile(c *qt.C, name, content string) string {
	path := filepath.Join(c.TempDir(), name)
	c.Assert(os.WriteFile(path, []byte(content), 0644), qt.IsNil)
	return path
}

func TestLoadConfiguration(t *testing.T) {
	c := qt.New(t)

	path := writeFile(c, "gpengine.toml", `
log_level = "debug"

[renderer]
application_name = "Demo"
diagnostics = true
width = 1280
clear_color = [0.1, 0.2, 0.3, 1.0]
`)

	cfg, err := core.LoadConfiguration(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.LogLevel, qt.Equals, "debug")
	c.Assert(cfg.Renderer.ApplicationName, qt.Equals, "Demo")
	c.Assert(cfg.Renderer.EnableDiagnostics, qt.IsTrue)
	c.Assert(cfg.Renderer.ForceValidation, qt.IsFalse)
	c.Assert(cfg.Renderer.ScreenWidth, qt.Equals, uint32(1280))
	c.Assert(cfg.Renderer.ScreenHeight, qt.Equals, uint32(600))
	c.Assert(cfg.Renderer.ClearColor, qt.Equals, glm.Vec4{0.1, 0.2, 0.3, 1.0})
	c.Assert(cfg.Time.EventPollDelay, qt.Equals, 50)
}

func TestLoadConfigurationDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := core.LoadConfiguration("")
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, core.DefaultConfiguration())

	_, err = core.LoadConfiguration(filepath.Join(c.TempDir(), "missing.toml"))
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = core.LoadConfiguration(writeFile(c, "bad.toml", "renderer = 3"))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestApplyEnvironment(t *testing.T) {
	c := qt.New(t)

	c.Setenv(core.EnvDiagnostics, "true")
	c.Setenv(core.EnvAppName, "FromProcess")
	first := writeFile(c, "first.env", core.EnvAppName+"=FromFirst\n"+core.EnvDiagnostics+"=false\n")
	second := writeFile(c, "second.env", core.EnvAppName+"=FromSecond\n")

	cfg := core.DefaultConfiguration()
	c.Assert(cfg.ApplyEnvironment(first, filepath.Join(c.TempDir(), "absent.env"), second), qt.IsNil)
	c.Assert(cfg.Renderer.EnableDiagnostics, qt.IsFalse)
	c.Assert(cfg.Renderer.ApplicationName, qt.Equals, "FromSecond")
	c.Assert(cfg.Renderer.ForceValidation, qt.IsFalse)
}

func TestApplyEnvironmentProcessOnly(t *testing.T) {
	c := qt.New(t)

	c.Setenv(core.EnvDiagnostics, "true")
	c.Setenv(core.EnvLogLevel, "debug")

	cfg := core.DefaultConfiguration()
	c.Assert(cfg.ApplyEnvironment(filepath.Join(c.TempDir(), "absent.env")), qt.IsNil)
	c.Assert(cfg.Renderer.EnableDiagnostics, qt.IsTrue)
	c.Assert(cfg.LogLevel, qt.Equals, "debug")
}

func TestApplyEnvironmentWorkingDirectoryDotenv(t *testing.T) {
	c := qt.New(t)

	wd, err := os.Getwd()
	c.Assert(err, qt.IsNil)
	dir := c.TempDir()
	c.Assert(os.Chdir(dir), qt.IsNil)
	c.Cleanup(func() { os.Chdir(wd) })

	c.Setenv(core.EnvAppName, "FromProcess")
	c.Assert(os.WriteFile(filepath.Join(dir, ".env"), []byte(core.EnvAppName+"=FromDotenv\n"), 0644), qt.IsNil)

	cfg := core.DefaultConfiguration()
	c.Assert(cfg.ApplyEnvironment(".env"), qt.IsNil)
	c.Assert(cfg.Renderer.ApplicationName, qt.Equals, "FromDotenv")
	c.Assert(os.Getenv(core.EnvAppName), qt.Equals, "FromDotenv")
}

func TestApplyEnvironmentInvalidBool(t *testing.T) {
	c := qt.New(t)

	c.Setenv(core.EnvValidation, "sometimes")
	cfg := core.DefaultConfiguration()
	c.Assert(cfg.ApplyEnvironment(), qt.Not(qt.IsNil))
}
