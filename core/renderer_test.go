// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/gpengine/core"
	"github.com/devblok/gpengine/gfx"
	"github.com/devblok/gpengine/gfx/gfxtest"
)

func rendererConfig() core.RendererConfiguration {
	return core.DefaultConfiguration().Renderer
}

func newRenderer(c *qt.C, drv *gfxtest.Driver, cfg core.RendererConfiguration) *core.Renderer {
	logger, _ := test.NewNullLogger()
	r, err := core.NewRenderer(drv, gfxtest.NewWindow(800, 600), cfg, logger)
	c.Assert(err, qt.IsNil)
	return r
}

// reversed returns hs back to front; nil stays nil so an empty
// call log compares equal.
func reversed(hs []uintptr) []uintptr {
	if len(hs) == 0 {
		return nil
	}
	out := make([]uintptr, len(hs))
	for i, h := range hs {
		out[len(hs)-1-i] = h
	}
	return out
}

func TestRendererCreationOrder(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	c.Assert(drv.Ops("Create"), qt.DeepEquals, []string{
		"CreateInstance",
		"CreateSurface",
		"CreateDevice",
		"CreateSwapchain",
		"CreateImageView",
		"CreateImageView",
		"CreateImageView",
		"CreateImage",
		"CreateMemory",
		"CreateImageView",
		"CreateRenderPass",
		"CreateFramebuffer",
		"CreateFramebuffer",
		"CreateFramebuffer",
	})
}

func TestRendererTeardownReversesCreation(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	cfg := rendererConfig()
	cfg.EnableDiagnostics = true
	drv.Layers = []string{core.ValidationLayer}
	r := newRenderer(c, drv, cfg)

	created := drv.Created()
	c.Assert(drv.Live(), qt.Equals, len(created))

	r.Destroy()
	c.Assert(drv.Destroyed(), qt.DeepEquals, reversed(created))
	c.Assert(drv.Live(), qt.Equals, 0)
	c.Assert(drv.WaitedIdle, qt.Equals, 1)

	// The device is idle before anything is destroyed.
	calls := drv.Ops("")
	c.Assert(calls[len(created)], qt.Equals, "DeviceWaitIdle")

	r.Destroy()
	c.Assert(drv.Destroyed(), qt.HasLen, len(created))
	c.Assert(drv.WaitedIdle, qt.Equals, 1)
}

func TestRendererDiagnostics(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	drv.Layers = []string{"VK_LAYER_LUNARG_api_dump", core.ValidationLayer}
	cfg := rendererConfig()
	cfg.EnableDiagnostics = true
	r := newRenderer(c, drv, cfg)
	defer r.Destroy()

	c.Assert(drv.Instance.Layers, qt.DeepEquals, []string{core.ValidationLayer})
	c.Assert(drv.Instance.Extensions, qt.Contains, core.DebugReportExtension)
	c.Assert(drv.Instance.Extensions, qt.Contains, "VK_KHR_surface")
	c.Assert(drv.Ops("Create")[:3], qt.DeepEquals, []string{"CreateInstance", "CreateDebugCallback", "CreateSurface"})
}

func TestRendererDiagnosticsWithoutLayer(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	cfg := rendererConfig()
	cfg.EnableDiagnostics = true
	r := newRenderer(c, drv, cfg)
	defer r.Destroy()

	c.Assert(drv.Instance.Layers, qt.HasLen, 0)
	c.Assert(drv.Instance.Extensions, qt.Contains, core.DebugReportExtension)
}

func TestRendererForcedValidationMissing(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	cfg := rendererConfig()
	cfg.ForceValidation = true
	logger, _ := test.NewNullLogger()
	_, err := core.NewRenderer(drv, gfxtest.NewWindow(800, 600), cfg, logger)
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
	c.Assert(drv.Calls, qt.HasLen, 0)
}

func TestRendererBaselineVersion(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("Fake GPU", gfx.DeviceTypeDiscreteGPU))
	drv.VersionKnown = false
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	c.Assert(drv.Instance.APIVersion, qt.Equals, core.BaselineVersion)
	c.Assert(r.Info(), qt.Equals, "Using Vulkan version: 1.0.0, GPU: Fake GPU")
}

func TestRendererNegotiatedState(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	gpu.Formats = []gfx.SurfaceFormat{{Format: gfx.FormatUndefined}}
	drv := gfxtest.NewDriver(gpu)
	cfg := rendererConfig()
	r := newRenderer(c, drv, cfg)
	defer r.Destroy()

	c.Assert(r.Info(), qt.Equals, "Using Vulkan version: 1.1.0, GPU: discrete")
	c.Assert(r.PhysicalDevice().Name(), qt.Equals, "discrete")

	sc := r.Swapchain()
	c.Assert(sc.Format.Format, qt.Equals, gfx.FormatB8G8R8A8Unorm)
	c.Assert(sc.PresentMode, qt.Equals, gfx.PresentModeMailbox)
	c.Assert(sc.Extent, qt.Equals, gfx.Extent2D{Width: 800, Height: 600})
	c.Assert(sc.Images, qt.HasLen, 3)
	c.Assert(sc.Views, qt.HasLen, 3)

	depth := r.Depth()
	c.Assert(depth.Format, qt.Equals, gfx.FormatD32SfloatS8Uint)
	c.Assert(drv.Image.Usage, qt.Equals, gfx.ImageUsageDepthStencilAttachment|gfx.ImageUsageSampled)
	c.Assert(drv.Image.Extent, qt.Equals, sc.Extent)
	c.Assert(drv.MemoryType, qt.Equals, uint32(1))
	c.Assert(drv.BindOffset, qt.Equals, uint64(0))
	c.Assert(drv.Views[len(drv.Views)-1].Aspect, qt.Equals, gfx.AspectDepth|gfx.AspectStencil)

	rt := r.RenderTargets()
	c.Assert(rt.Framebuffers, qt.HasLen, 3)
	for i, fb := range drv.Framebuffer {
		c.Assert(fb.Attachments, qt.DeepEquals, []gfx.ImageView{sc.Views[i], depth.View})
		c.Assert(fb.Extent, qt.Equals, sc.Extent)
		c.Assert(fb.Layers, qt.Equals, uint32(1))
	}

	color, clearDepth, stencil := rt.ClearValues()
	c.Assert(color, qt.Equals, cfg.ClearColor)
	c.Assert(clearDepth, qt.Equals, float32(1))
	c.Assert(stencil, qt.Equals, uint32(0))
}

func TestScenarioImageCountUnbounded(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	gpu.Capabilities.MinImageCount, gpu.Capabilities.MaxImageCount = 2, 0
	drv := gfxtest.NewDriver(gpu)
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	c.Assert(r.Swapchain().ImageCount, qt.Equals, uint32(3))
	c.Assert(drv.Swapchain.MinImageCount, qt.Equals, uint32(3))
}

func TestScenarioImageCountBounded(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	gpu.Capabilities.MinImageCount, gpu.Capabilities.MaxImageCount = 2, 2
	drv := gfxtest.NewDriver(gpu)
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	c.Assert(r.Swapchain().ImageCount, qt.Equals, uint32(2))
	c.Assert(r.RenderTargets().Framebuffers, qt.HasLen, 2)
}

func TestScenarioDedicatedCompute(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	gpu.QueueFamilies = []gfx.QueueFamily{
		{Flags: gfx.QueueGraphics | gfx.QueueTransfer, Count: 16},
		{Flags: gfx.QueueCompute, Count: 8},
	}
	gpu.Present = []bool{true, false}
	drv := gfxtest.NewDriver(gpu)
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	q := r.Queues()
	c.Assert(q.Families.Graphics, qt.Equals, uint32(0))
	c.Assert(q.Families.Present, qt.Equals, uint32(0))
	c.Assert(q.Families.Compute, qt.Equals, uint32(1))
	c.Assert(q.Graphics, qt.Equals, q.Present)
	c.Assert(q.Compute, qt.Not(qt.Equals), q.Graphics)

	c.Assert(r.Swapchain().Sharing, qt.Equals, gfx.SharingExclusive)
	c.Assert(drv.Swapchain.QueueFamilies, qt.HasLen, 0)

	c.Assert(drv.Device.Queues, qt.HasLen, 2)
	c.Assert(drv.Device.Queues[0].Family, qt.Equals, uint32(0))
	c.Assert(drv.Device.Queues[1].Family, qt.Equals, uint32(1))
	c.Assert(drv.Device.Extensions, qt.DeepEquals, []string{core.SwapchainExtension})
}

func TestScenarioSeparatePresentFamily(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	gpu.QueueFamilies = []gfx.QueueFamily{
		{Flags: gfx.QueueGraphics | gfx.QueueCompute, Count: 16},
		{Flags: gfx.QueueTransfer, Count: 2},
	}
	gpu.Present = []bool{false, true}
	drv := gfxtest.NewDriver(gpu)
	r := newRenderer(c, drv, rendererConfig())
	defer r.Destroy()

	c.Assert(r.Swapchain().Sharing, qt.Equals, gfx.SharingConcurrent)
	c.Assert(drv.Swapchain.QueueFamilies, qt.DeepEquals, []uint32{0, 1})
	c.Assert(drv.Device.Queues, qt.HasLen, 2)
}

func TestScenarioNoCapableDevice(t *testing.T) {
	c := qt.New(t)

	headless := gfxtest.GPU("headless", gfx.DeviceTypeDiscreteGPU)
	headless.Present = nil
	computeless := gfxtest.GPU("computeless", gfx.DeviceTypeIntegratedGPU)
	computeless.QueueFamilies = []gfx.QueueFamily{{Flags: gfx.QueueGraphics, Count: 1}}

	drv := gfxtest.NewDriver(headless, computeless)
	logger, _ := test.NewNullLogger()
	r, err := core.NewRenderer(drv, gfxtest.NewWindow(800, 600), rendererConfig(), logger)
	c.Assert(r, qt.IsNil)
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
	c.Assert(drv.Live(), qt.Equals, 0)
	c.Assert(drv.Destroyed(), qt.DeepEquals, reversed(drv.Created()))
}

func TestRendererFailureReleasesEverything(t *testing.T) {
	tests := []struct {
		op          string
		diagnostics bool
		// device reports whether the logical device exists when op fails.
		device bool
	}{
		{op: "Instance"},
		{op: "DebugCallback", diagnostics: true},
		{op: "Surface"},
		{op: "EnumeratePhysicalDevices"},
		{op: "GetPhysicalDeviceSurfaceSupport"},
		{op: "GetPhysicalDeviceSurfaceFormats"},
		{op: "GetPhysicalDeviceSurfacePresentModes"},
		{op: "Device"},
		{op: "GetPhysicalDeviceSurfaceCapabilities", device: true},
		{op: "Swapchain", device: true},
		{op: "GetSwapchainImages", device: true},
		{op: "ImageView", device: true},
		{op: "Image", device: true},
		{op: "Memory", device: true},
		{op: "BindImageMemory", device: true},
		{op: "RenderPass", device: true},
		{op: "Framebuffer", device: true},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			c := qt.New(t)

			drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
			drv.Layers = []string{core.ValidationLayer}
			if tt.op == "ImageView" || tt.op == "Framebuffer" {
				drv.FailNth(tt.op, 2, -2)
			} else {
				drv.Fail(tt.op, -2)
			}

			cfg := rendererConfig()
			cfg.EnableDiagnostics = tt.diagnostics

			logger, _ := test.NewNullLogger()
			r, err := core.NewRenderer(drv, gfxtest.NewWindow(800, 600), cfg, logger)
			c.Assert(r, qt.IsNil)
			c.Assert(core.Classify(err), qt.Equals, core.CodeDriver)
			c.Assert(drv.Live(), qt.Equals, 0)
			c.Assert(drv.Destroyed(), qt.DeepEquals, reversed(drv.Created()))

			destroyedDevice := false
			for _, op := range drv.Ops("Destroy") {
				destroyedDevice = destroyedDevice || op == "DestroyDevice"
			}
			c.Assert(destroyedDevice, qt.Equals, tt.device)

			cause, ok := stacktrace.RootCause(err).(*gfx.ResultError)
			c.Assert(ok, qt.IsTrue)
			c.Assert(cause.Result.String(), qt.Equals, "ERROR_OUT_OF_DEVICE_MEMORY")
		})
	}
}

func TestRendererClearColorClamped(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	cfg := rendererConfig()
	cfg.ClearColor = glm.Vec4{1.5, -0.25, 0.5, 2}
	r := newRenderer(c, drv, cfg)
	defer r.Destroy()

	color, _, _ := r.RenderTargets().ClearValues()
	c.Assert(color, qt.Equals, glm.Vec4{1, 0, 0.5, 1})
}

func TestRendererSurfaceFailure(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	win := gfxtest.NewWindow(800, 600)
	win.NoSurface = true

	logger, _ := test.NewNullLogger()
	_, err := core.NewRenderer(drv, win, rendererConfig(), logger)
	c.Assert(core.Classify(err), qt.Equals, core.CodeDriver)
	c.Assert(stacktrace.RootCause(err), qt.Equals, gfxtest.ErrNoSurface)
	c.Assert(drv.Live(), qt.Equals, 0)
}

func TestRendererMissingRuntime(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	drv.LoadErr = &gfx.ResultError{Op: "vk.Init", Result: -3}

	logger, _ := test.NewNullLogger()
	_, err := core.NewRenderer(drv, gfxtest.NewWindow(800, 600), rendererConfig(), logger)
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
	c.Assert(drv.Calls, qt.HasLen, 0)
}

func TestMustNewRendererPanics(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver()
	logger, hook := test.NewNullLogger()
	c.Assert(func() {
		core.MustNewRenderer(drv, gfxtest.NewWindow(800, 600), rendererConfig(), logger)
	}, qt.PanicMatches, `(?s).*no physical devices.*`)
	c.Assert(hook.LastEntry().Message, qt.Equals, "renderer initialisation failed")
}
