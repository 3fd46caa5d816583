// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/devblok/gpengine/core"
	"github.com/devblok/gpengine/gfx/vkr"
	"github.com/devblok/gpengine/window"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var (
	debug  = flag.Bool("vkdbg", false, "Enable Vulkan diagnostics while surveying")
	indent = flag.Bool("indent", false, "Indent the JSON output")
)

func main() {
	flag.Parse()

	logger := log.New()
	logger.Out = os.Stderr
	logger.SetLevel(log.WarnLevel)

	cfg := core.DefaultConfiguration().Renderer
	cfg.ApplicationName = "gpinfo"
	cfg.EnableDiagnostics = *debug

	if err := window.Init(); err != nil {
		logger.WithError(err).Fatal("window system")
	}
	defer window.Quit()

	win, err := window.NewHidden(cfg.ApplicationName, cfg.ScreenWidth, cfg.ScreenHeight)
	if err != nil {
		logger.WithError(err).Fatal("window system")
	}
	defer win.Release()

	reports, err := core.Inspect(vkr.New(window.ProcAddr(), logger), win, cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("class", core.Classify(err)).Fatal("survey failed")
	}

	var bytes []byte
	if *indent {
		bytes, err = json.MarshalIndent(reports, "", "  ")
	} else {
		bytes, err = json.Marshal(reports)
	}
	if err != nil {
		logger.WithError(err).Fatal("encoding reports")
	}
	fmt.Printf("%s\n", bytes)
}
