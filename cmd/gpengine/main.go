// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/devblok/gpengine/core"
	"github.com/devblok/gpengine/gfx/vkr"
	"github.com/devblok/gpengine/window"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "TOML configuration file")
	envFile    = flag.String("env", ".env", "Environment file whose values override the process environment")
	cpuProfile = flag.String("cpuprof", "", "Profile CPU usage to file")
	debug      = flag.Bool("vkdbg", false, "Enable Vulkan diagnostics and validation layers")
	validation = flag.Bool("validation", false, "Fail unless the validation layer can be loaded")
	logLevel   = flag.String("loglevel", "", "Log level, overrides configuration")
)

func configure() (core.Configuration, error) {
	cfg, err := core.LoadConfiguration(*configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnvironment(*envFile); err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vkdbg":
			cfg.Renderer.EnableDiagnostics = *debug
		case "validation":
			cfg.Renderer.ForceValidation = *validation
		case "loglevel":
			cfg.LogLevel = *logLevel
		}
	})
	return cfg, nil
}

func main() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	cfg, err := configure()
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	log.SetLevel(level)
	logger := log.StandardLogger()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.WithError(err).Fatal("creating cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.WithError(err).Fatal("starting cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	if err := window.Init(); err != nil {
		logger.WithError(err).Fatal("window system")
	}
	defer window.Quit()

	win, err := window.New(cfg.Renderer.ApplicationName, cfg.Renderer.ScreenWidth, cfg.Renderer.ScreenHeight)
	if err != nil {
		logger.WithError(err).Fatal("window system")
	}
	defer win.Release()

	driver := vkr.New(window.ProcAddr(), logger.WithField("component", "vulkan"))
	renderer, err := core.NewRenderer(driver, win, cfg.Renderer, logger)
	if err != nil && cfg.Renderer.EnableDiagnostics && !cfg.Renderer.ForceValidation && core.Classify(err) == core.CodeDriver {
		logger.WithError(err).Warn("renderer failed with diagnostics, retrying without")
		cfg.Renderer.EnableDiagnostics = false
		renderer, err = core.NewRenderer(driver, win, cfg.Renderer, logger)
	}
	if err != nil {
		logger.WithError(err).WithField("class", core.Classify(err)).Fatal("renderer initialisation failed")
	}
	defer renderer.Destroy()

	timeService := core.NewTime(cfg.Time)
	defer timeService.Stop()

	for range timeService.EventTicker().C {
		if win.Closed() {
			logger.Info("event loop exited")
			break
		}
	}
}
