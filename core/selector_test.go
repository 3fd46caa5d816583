// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/gpengine/core"
	"github.com/devblok/gpengine/gfx"
	"github.com/devblok/gpengine/gfx/gfxtest"
)

// noPresent returns a device whose queue families cannot present.
func noPresent(name string, kind gfx.DeviceType) *gfxtest.Device {
	d := gfxtest.GPU(name, kind)
	d.Present = nil
	return d
}

func noCompute(name string, kind gfx.DeviceType) *gfxtest.Device {
	d := gfxtest.GPU(name, kind)
	d.QueueFamilies = []gfx.QueueFamily{{Flags: gfx.QueueGraphics | gfx.QueueTransfer, Count: 1}}
	return d
}

func selectFrom(devices ...*gfxtest.Device) (*core.PhysicalDevice, error) {
	logger, _ := test.NewNullLogger()
	drv := gfxtest.NewDriver(devices...)
	return core.SelectPhysicalDevice(drv, 1, 1, logger)
}

func TestSelectPrefersDiscreteAtAnyPosition(t *testing.T) {
	c := qt.New(t)

	for _, pos := range []int{0, 1, 2} {
		devices := []*gfxtest.Device{
			gfxtest.GPU("integrated-a", gfx.DeviceTypeIntegratedGPU),
			gfxtest.GPU("integrated-b", gfx.DeviceTypeIntegratedGPU),
		}
		discrete := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
		devices = append(devices[:pos], append([]*gfxtest.Device{discrete}, devices[pos:]...)...)

		pd, err := selectFrom(devices...)
		c.Assert(err, qt.IsNil, qt.Commentf("discrete at %d", pos))
		c.Assert(pd.Name(), qt.Equals, "discrete", qt.Commentf("discrete at %d", pos))
		c.Assert(pd.Properties.Type, qt.Equals, gfx.DeviceTypeDiscreteGPU)
	}
}

func TestSelectSkipsUnqualifiedDiscrete(t *testing.T) {
	c := qt.New(t)

	pd, err := selectFrom(
		noPresent("headless", gfx.DeviceTypeDiscreteGPU),
		noCompute("graphics-only", gfx.DeviceTypeDiscreteGPU),
		gfxtest.GPU("integrated", gfx.DeviceTypeIntegratedGPU),
	)
	c.Assert(err, qt.IsNil)
	c.Assert(pd.Name(), qt.Equals, "integrated")
}

func TestSelectFallsBackToFirstQualifying(t *testing.T) {
	c := qt.New(t)

	pd, err := selectFrom(
		noPresent("headless", gfx.DeviceTypeIntegratedGPU),
		gfxtest.GPU("virtual", gfx.DeviceTypeVirtualGPU),
		gfxtest.GPU("integrated", gfx.DeviceTypeIntegratedGPU),
	)
	c.Assert(err, qt.IsNil)
	c.Assert(pd.Name(), qt.Equals, "virtual")
}

func TestSelectCachesCapabilities(t *testing.T) {
	c := qt.New(t)

	gpu := gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU)
	pd, err := selectFrom(gpu)
	c.Assert(err, qt.IsNil)
	c.Assert(pd.QueueFamilies, qt.DeepEquals, gpu.QueueFamilies)
	c.Assert(pd.SurfaceFormats, qt.DeepEquals, gpu.Formats)
	c.Assert(pd.PresentModes, qt.DeepEquals, gpu.PresentModes)
	c.Assert(pd.Memory, qt.DeepEquals, gpu.Memory)
	c.Assert(pd.FormatProperties(gfx.FormatD16Unorm), qt.Equals, gpu.Depth[gfx.FormatD16Unorm])
}

func TestSelectNoQualifyingDevice(t *testing.T) {
	c := qt.New(t)

	_, err := selectFrom(
		noPresent("headless", gfx.DeviceTypeDiscreteGPU),
		noCompute("graphics-only", gfx.DeviceTypeIntegratedGPU),
	)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
}

func TestSelectNoDevices(t *testing.T) {
	c := qt.New(t)

	_, err := selectFrom()
	c.Assert(core.Classify(err), qt.Equals, core.CodePrecondition)
}

func TestSurvey(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(
		gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU),
		noPresent("headless", gfx.DeviceTypeIntegratedGPU),
	)
	reports, err := core.Survey(drv, 1, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(reports, qt.HasLen, 2)

	c.Assert(reports[0].Name, qt.Equals, "discrete")
	c.Assert(reports[0].APIVersion, qt.Equals, "1.1.0")
	c.Assert(reports[0].Memory, qt.Equals, uint64(1<<30))
	c.Assert(reports[0].Qualifies, qt.IsTrue)

	c.Assert(reports[1].Graphics, qt.IsTrue)
	c.Assert(reports[1].Presentation, qt.IsFalse)
	c.Assert(reports[1].Qualifies, qt.IsFalse)
}

func TestInspectReleasesContext(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(
		gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU),
		noCompute("integrated", gfx.DeviceTypeIntegratedGPU),
	)
	logger, _ := test.NewNullLogger()
	reports, err := core.Inspect(drv, gfxtest.NewWindow(640, 480), core.DefaultConfiguration().Renderer, logger)
	c.Assert(err, qt.IsNil)
	c.Assert(reports, qt.HasLen, 2)
	c.Assert(reports[0].Qualifies, qt.IsTrue)
	c.Assert(reports[1].Compute, qt.IsFalse)

	c.Assert(drv.Ops("Create"), qt.DeepEquals, []string{"CreateInstance", "CreateSurface"})
	c.Assert(drv.Live(), qt.Equals, 0)
}

func TestInspectSurfaceFailure(t *testing.T) {
	c := qt.New(t)

	drv := gfxtest.NewDriver(gfxtest.GPU("discrete", gfx.DeviceTypeDiscreteGPU))
	win := gfxtest.NewWindow(640, 480)
	win.NoSurface = true
	logger, _ := test.NewNullLogger()

	_, err := core.Inspect(drv, win, core.DefaultConfiguration().Renderer, logger)
	c.Assert(core.Classify(err), qt.Equals, core.CodeDriver)
	c.Assert(drv.Live(), qt.Equals, 0)
}
