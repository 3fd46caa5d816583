// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/gpengine/gfx"
)

func TestVersion(t *testing.T) {
	c := qt.New(t)

	v := gfx.MakeVersion(1, 2, 131)
	c.Assert(v.Major(), qt.Equals, uint32(1))
	c.Assert(v.Minor(), qt.Equals, uint32(2))
	c.Assert(v.Patch(), qt.Equals, uint32(131))
	c.Assert(v.String(), qt.Equals, "1.2.131")
	c.Assert(uint32(gfx.MakeVersion(1, 0, 0)), qt.Equals, uint32(1<<22))
}

func TestFormatHasStencil(t *testing.T) {
	c := qt.New(t)

	c.Assert(gfx.FormatD32SfloatS8Uint.HasStencil(), qt.IsTrue)
	c.Assert(gfx.FormatD24UnormS8Uint.HasStencil(), qt.IsTrue)
	c.Assert(gfx.FormatD16UnormS8Uint.HasStencil(), qt.IsTrue)
	c.Assert(gfx.FormatD32Sfloat.HasStencil(), qt.IsFalse)
	c.Assert(gfx.FormatD16Unorm.HasStencil(), qt.IsFalse)
}

func TestFormatPropertiesByTiling(t *testing.T) {
	c := qt.New(t)

	p := gfx.FormatProperties{
		LinearTiling:  gfx.FormatFeatureSampledImage,
		OptimalTiling: gfx.FormatFeatureDepthStencilAttachment,
	}
	c.Assert(p.Features(gfx.TilingLinear), qt.Equals, gfx.FormatFeatureSampledImage)
	c.Assert(p.Features(gfx.TilingOptimal), qt.Equals, gfx.FormatFeatureDepthStencilAttachment)
}

func TestDeviceTypeText(t *testing.T) {
	c := qt.New(t)

	data, err := json.Marshal(map[string]gfx.DeviceType{"type": gfx.DeviceTypeDiscreteGPU})
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `{"type":"discrete"}`)
	c.Assert(gfx.DeviceType(42).String(), qt.Equals, "DeviceType(42)")
}

func TestResultError(t *testing.T) {
	c := qt.New(t)

	err := &gfx.ResultError{Op: "vk.CreateDevice", Result: -2}
	c.Assert(err.Error(), qt.Equals, "vk.CreateDevice(): ERROR_OUT_OF_DEVICE_MEMORY")
	c.Assert(gfx.Result(-77).String(), qt.Equals, "VkResult(-77)")
}
