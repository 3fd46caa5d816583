// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// Renderer owns every handle of an initialised rendering context:
// instance, surface, device, swapchain, depth buffer and render targets.
// It is built once, read by the frame loop, and destroyed once.
type Renderer struct {
	driver gfx.Driver
	log    log.FieldLogger
	lc     *lifecycle

	context   *GraphicsContext
	surface   gfx.Surface
	physical  *PhysicalDevice
	device    *LogicalDevice
	swapchain *SwapchainState
	depth     *DepthResource
	targets   *RenderTargets
}

// NewRenderer runs the whole initialisation pipeline against the window.
// Every stage either fully succeeds or the error is returned after all
// handles acquired so far have been released. The error carries one of
// CodeUnsupported, CodeDriver or CodePrecondition.
func NewRenderer(drv gfx.Driver, win gfx.Window, cfg RendererConfiguration, logger log.FieldLogger) (*Renderer, error) {
	r := &Renderer{
		driver: drv,
		log:    logger,
		lc:     &lifecycle{log: logger},
	}
	if err := r.initialise(win, cfg); err != nil {
		logger.WithField("held", r.lc.held()).Debug("initialisation failed, releasing")
		r.lc.unwind()
		return nil, err
	}
	return r, nil
}

// MustNewRenderer is like NewRenderer but logs the failure as fatal
// and panics with it.
func MustNewRenderer(drv gfx.Driver, win gfx.Window, cfg RendererConfiguration, logger log.FieldLogger) *Renderer {
	r, err := NewRenderer(drv, win, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("renderer initialisation failed")
		panic(err)
	}
	return r
}

func (r *Renderer) initialise(win gfx.Window, cfg RendererConfiguration) error {
	var err error
	stage := func(name string) log.FieldLogger {
		return r.log.WithField("stage", name)
	}

	if r.context, r.surface, err = createContext(r.driver, win, cfg, r.lc, stage("context")); err != nil {
		return err
	}
	if r.physical, err = SelectPhysicalDevice(r.driver, r.context.Instance, r.surface, stage("selector")); err != nil {
		return err
	}

	supportsPresent := func(family uint32) (bool, error) {
		return r.driver.SurfaceSupport(r.physical.Handle, family, r.surface)
	}
	families, err := ResolveQueueFamilies(r.physical.QueueFamilies, supportsPresent, stage("queues"))
	if err != nil {
		return err
	}

	if r.device, err = createLogicalDevice(r.driver, r.physical, families, r.lc, stage("device")); err != nil {
		return err
	}
	if r.swapchain, err = createSwapchain(r.driver, win, r.surface, r.physical, r.device, r.lc, stage("swapchain")); err != nil {
		return err
	}
	if r.depth, err = createDepthResource(r.driver, r.physical, r.device, r.swapchain.Extent, r.lc, stage("depth")); err != nil {
		return err
	}
	if r.targets, err = createRenderTargets(r.driver, r.device, r.swapchain, r.depth, cfg.ClearColor, r.lc, stage("targets")); err != nil {
		return err
	}

	r.log.Info(r.Info())
	return nil
}

// Info describes the negotiated API version and the selected device.
func (r *Renderer) Info() string {
	return fmt.Sprintf("Using Vulkan version: %s, GPU: %s", r.context.Version, r.physical.Name())
}

// Context returns the API instance the renderer was built on.
func (r *Renderer) Context() *GraphicsContext {
	return r.context
}

// PhysicalDevice returns the selected device.
func (r *Renderer) PhysicalDevice() *PhysicalDevice {
	return r.physical
}

// Queues returns the opened device and its queues.
func (r *Renderer) Queues() *LogicalDevice {
	return r.device
}

// Swapchain returns the presentable image chain.
func (r *Renderer) Swapchain() *SwapchainState {
	return r.swapchain
}

// Depth returns the shared depth buffer.
func (r *Renderer) Depth() *DepthResource {
	return r.depth
}

// RenderTargets returns the render pass and framebuffers.
func (r *Renderer) RenderTargets() *RenderTargets {
	return r.targets
}

// Destroy waits for the device to finish its work and releases every
// handle in reverse creation order. Calling it again does nothing.
// It must not run while a frame is being submitted.
func (r *Renderer) Destroy() {
	if r.lc.held() == 0 {
		return
	}
	if err := r.driver.DeviceWaitIdle(r.device.Handle); err != nil {
		r.log.WithError(err).Warn("device did not go idle, releasing anyway")
	}
	r.lc.unwind()
	r.log.Info("renderer destroyed")
}
