// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	"github.com/palantir/stacktrace"
	log "github.com/sirupsen/logrus"
)

// Names of the instance-level diagnostics machinery
const (
	ValidationLayer      = "VK_LAYER_KHRONOS_validation"
	DebugReportExtension = "VK_EXT_debug_report"
	SwapchainExtension   = "VK_KHR_swapchain"
	EngineName           = "GPEngine"
)

// BaselineVersion is assumed when the runtime cannot report its own.
var BaselineVersion = gfx.MakeVersion(1, 0, 0)

// GraphicsContext is the API instance and what it was created with.
type GraphicsContext struct {
	Instance   gfx.Instance
	Version    gfx.Version
	Extensions []string
	Layers     []string

	debugCallback gfx.DebugCallback
}

// createContext loads the runtime and creates the instance, the optional
// debug callback and the window surface. Everything acquired is recorded
// in lc.
func createContext(drv gfx.Driver, win gfx.Window, cfg RendererConfiguration, lc *lifecycle, logger log.FieldLogger) (*GraphicsContext, gfx.Surface, error) {
	if err := drv.Load(); err != nil {
		return nil, 0, stacktrace.PropagateWithCode(err, CodeUnsupported, "loading graphics runtime")
	}

	version, ok := drv.InstanceVersion()
	if !ok {
		version = BaselineVersion
		logger.WithField("version", version).Debug("runtime does not report its version, assuming baseline")
	}

	layers, err := instanceLayers(drv, cfg, logger)
	if err != nil {
		return nil, 0, err
	}

	extensions := append([]string{}, win.InstanceExtensions()...)
	if cfg.EnableDiagnostics {
		extensions = append(extensions, DebugReportExtension)
		logger.Warn("diagnostics enabled, driver calls run under validation")
	}

	info := gfx.InstanceInfo{
		ApplicationName: cfg.ApplicationName,
		EngineName:      EngineName,
		APIVersion:      version,
		Extensions:      extensions,
		Layers:          layers,
	}
	instance, err := drv.CreateInstance(info)
	if err != nil {
		return nil, 0, driverFailure(err, "creating instance (diagnostics %t)", cfg.EnableDiagnostics)
	}
	lc.acquired("instance", func() { drv.DestroyInstance(instance) })

	ctx := &GraphicsContext{
		Instance:   instance,
		Version:    version,
		Extensions: extensions,
		Layers:     layers,
	}

	if cfg.EnableDiagnostics {
		cb, err := drv.CreateDebugCallback(instance)
		if err != nil {
			return nil, 0, driverFailure(err, "creating debug callback")
		}
		ctx.debugCallback = cb
		lc.acquired("debug callback", func() { drv.DestroyDebugCallback(instance, cb) })
	}

	surface, err := drv.CreateSurface(instance, win)
	if err != nil {
		return nil, 0, driverFailure(err, "creating window surface")
	}
	lc.acquired("surface", func() { drv.DestroySurface(instance, surface) })

	logger.WithFields(log.Fields{
		"version":    version,
		"extensions": extensions,
		"layers":     layers,
	}).Info("graphics context created")
	return ctx, surface, nil
}

// instanceLayers decides which layers to enable. A layer asked for by
// diagnostics is dropped with a warning when missing; a forced one is not.
func instanceLayers(drv gfx.Driver, cfg RendererConfiguration, logger log.FieldLogger) ([]string, error) {
	if !cfg.EnableDiagnostics && !cfg.ForceValidation {
		return nil, nil
	}

	available, err := drv.InstanceLayers()
	if err != nil {
		return nil, driverFailure(err, "listing instance layers")
	}
	for _, l := range available {
		if l == ValidationLayer {
			return []string{ValidationLayer}, nil
		}
	}

	if cfg.ForceValidation {
		return nil, unsupported("validation layer %s is not installed", ValidationLayer)
	}
	logger.WithField("layer", ValidationLayer).Warn("validation layer not installed, continuing without it")
	return nil, nil
}
