// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/gpengine/core"
	"github.com/devblok/gpengine/gfx"
)

func depthSupport(table map[gfx.Format]gfx.FormatProperties) func(gfx.Format) gfx.FormatProperties {
	return func(f gfx.Format) gfx.FormatProperties {
		return table[f]
	}
}

func TestChooseDepthFormatPrefersOptimalTiling(t *testing.T) {
	c := qt.New(t)

	// The first preference is only usable linearly, a later one optimally.
	f, tiling, err := core.ChooseDepthFormat(depthSupport(map[gfx.Format]gfx.FormatProperties{
		gfx.FormatD32SfloatS8Uint: {LinearTiling: gfx.FormatFeatureDepthStencilAttachment},
		gfx.FormatD16Unorm:        {OptimalTiling: gfx.FormatFeatureDepthStencilAttachment},
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, gfx.FormatD16Unorm)
	c.Assert(tiling, qt.Equals, gfx.TilingOptimal)
}

func TestChooseDepthFormatOrder(t *testing.T) {
	c := qt.New(t)

	f, tiling, err := core.ChooseDepthFormat(depthSupport(map[gfx.Format]gfx.FormatProperties{
		gfx.FormatD24UnormS8Uint: {OptimalTiling: gfx.FormatFeatureDepthStencilAttachment},
		gfx.FormatD32Sfloat:      {OptimalTiling: gfx.FormatFeatureDepthStencilAttachment},
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, gfx.FormatD32Sfloat)
	c.Assert(tiling, qt.Equals, gfx.TilingOptimal)
}

func TestChooseDepthFormatLinearFallback(t *testing.T) {
	c := qt.New(t)

	f, tiling, err := core.ChooseDepthFormat(depthSupport(map[gfx.Format]gfx.FormatProperties{
		gfx.FormatD32Sfloat:      {OptimalTiling: gfx.FormatFeatureSampledImage},
		gfx.FormatD16UnormS8Uint: {LinearTiling: gfx.FormatFeatureDepthStencilAttachment},
	}))
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, gfx.FormatD16UnormS8Uint)
	c.Assert(tiling, qt.Equals, gfx.TilingLinear)
}

func TestChooseDepthFormatNone(t *testing.T) {
	c := qt.New(t)

	_, _, err := core.ChooseDepthFormat(depthSupport(nil))
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
}

var memoryTable = gfx.MemoryProperties{
	Types: []gfx.MemoryType{
		{Properties: gfx.MemoryHostVisible | gfx.MemoryHostCoherent},
		{Properties: gfx.MemoryDeviceLocal},
		{Properties: gfx.MemoryDeviceLocal | gfx.MemoryHostVisible},
		{Properties: gfx.MemoryHostVisible | gfx.MemoryHostCached},
	},
}

func TestFindMemoryType(t *testing.T) {
	tests := []struct {
		name     string
		typeBits uint32
		want     gfx.MemoryProperty
		index    uint32
		found    bool
	}{
		{"device local", 0xf, gfx.MemoryDeviceLocal, 1, true},
		{"masked out", 0xd, gfx.MemoryDeviceLocal, 2, true},
		{"superset", 0xf, gfx.MemoryHostVisible | gfx.MemoryHostCached, 3, true},
		{"unconstrained", 0x8, 0, 3, true},
		{"no bits", 0, 0, 0, false},
		{"no match", 0x9, gfx.MemoryDeviceLocal, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			idx, ok := core.FindMemoryType(memoryTable, tt.typeBits, tt.want)
			c.Assert(ok, qt.Equals, tt.found)
			if ok {
				c.Assert(idx, qt.Equals, tt.index)
			}

			again, okAgain := core.FindMemoryType(memoryTable, tt.typeBits, tt.want)
			c.Assert(again, qt.Equals, idx)
			c.Assert(okAgain, qt.Equals, ok)
		})
	}
}

func TestResolveMemoryType(t *testing.T) {
	c := qt.New(t)

	idx, err := core.ResolveMemoryType(memoryTable, 0xf)
	c.Assert(err, qt.IsNil)
	c.Assert(idx, qt.Equals, uint32(1))

	idx, err = core.ResolveMemoryType(memoryTable, 0x9)
	c.Assert(err, qt.IsNil)
	c.Assert(idx, qt.Equals, uint32(0))

	_, err = core.ResolveMemoryType(memoryTable, 0x10)
	c.Assert(core.Classify(err), qt.Equals, core.CodeUnsupported)
}
