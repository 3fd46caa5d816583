// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"os"
	"strconv"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/palantir/stacktrace"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables read by ApplyEnvironment
const (
	EnvDiagnostics = "GPENGINE_DIAGNOSTICS"
	EnvValidation  = "GPENGINE_VALIDATION"
	EnvLogLevel    = "GPENGINE_LOG_LEVEL"
	EnvAppName     = "GPENGINE_APP_NAME"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	LogLevel string                `toml:"log_level"`
	Time     TimeConfiguration     `toml:"time"`
	Renderer RendererConfiguration `toml:"renderer"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// EventPollDelay is the delay between window event polls in milliseconds
	EventPollDelay int `toml:"event_poll_delay"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ApplicationName string `toml:"application_name"`

	// EnableDiagnostics turns on the debug report extension, the validation
	// layer and routes driver messages into the log. Every driver call
	// becomes considerably slower.
	EnableDiagnostics bool `toml:"diagnostics"`

	// ForceValidation requires the validation layer even without
	// diagnostics; initialisation fails if the layer is missing.
	ForceValidation bool `toml:"validation"`

	ScreenWidth  uint32 `toml:"width"`
	ScreenHeight uint32 `toml:"height"`

	// ClearColor the color attachment is cleared to on load
	ClearColor glm.Vec4 `toml:"clear_color"`
}

// DefaultConfiguration returns the configuration used when nothing overrides it.
func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: "info",
		Time: TimeConfiguration{
			EventPollDelay: 50,
		},
		Renderer: RendererConfiguration{
			ApplicationName: "GPEngine",
			ScreenWidth:     800,
			ScreenHeight:    600,
			ClearColor:      glm.Vec4{0.05, 0.05, 0.05, 1},
		},
	}
}

// LoadConfiguration reads a TOML file over the defaults.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, stacktrace.Propagate(err, "reading configuration %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, stacktrace.Propagate(err, "parsing configuration %s", path)
	}
	return cfg, nil
}

// ApplyEnvironment overrides the configuration from the environment.
// Dotenv files follow envy's rule: their values overwrite the process
// environment and a later file wins over an earlier one. envy has
// already loaded ./.env this way on startup. Missing files are skipped.
func (c *Configuration) ApplyEnvironment(envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Overload(f); err != nil {
			return stacktrace.Propagate(err, "reading environment file %s", f)
		}
	}
	envy.Reload()

	var err error
	if c.Renderer.EnableDiagnostics, err = envBool(EnvDiagnostics, c.Renderer.EnableDiagnostics); err != nil {
		return err
	}
	if c.Renderer.ForceValidation, err = envBool(EnvValidation, c.Renderer.ForceValidation); err != nil {
		return err
	}
	c.LogLevel = envy.Get(EnvLogLevel, c.LogLevel)
	c.Renderer.ApplicationName = envy.Get(EnvAppName, c.Renderer.ApplicationName)
	return nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := envy.Get(key, strconv.FormatBool(fallback))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, stacktrace.Propagate(err, "%s=%q is not a boolean", key, raw)
	}
	return v, nil
}
