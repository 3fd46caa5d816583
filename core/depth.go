// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// DepthFormats in order of preference.
var DepthFormats = []gfx.Format{
	gfx.FormatD32SfloatS8Uint,
	gfx.FormatD32Sfloat,
	gfx.FormatD24UnormS8Uint,
	gfx.FormatD16UnormS8Uint,
	gfx.FormatD16Unorm,
}

// DepthResource is the depth buffer shared by every framebuffer.
type DepthResource struct {
	Format gfx.Format
	Tiling gfx.ImageTiling
	Image  gfx.Image
	Memory gfx.DeviceMemory
	View   gfx.ImageView
}

// ChooseDepthFormat returns the first preferred format usable as a depth
// attachment with optimal tiling, or failing that with linear tiling.
func ChooseDepthFormat(props func(gfx.Format) gfx.FormatProperties) (gfx.Format, gfx.ImageTiling, error) {
	for _, tiling := range []gfx.ImageTiling{gfx.TilingOptimal, gfx.TilingLinear} {
		for _, f := range DepthFormats {
			if props(f).Features(tiling)&gfx.FormatFeatureDepthStencilAttachment != 0 {
				return f, tiling, nil
			}
		}
	}
	return gfx.FormatUndefined, 0, unsupported("no depth format is usable as an attachment")
}

func depthAspect(f gfx.Format) gfx.ImageAspect {
	if f.HasStencil() {
		return gfx.AspectDepth | gfx.AspectStencil
	}
	return gfx.AspectDepth
}

func createDepthResource(drv gfx.Driver, pd *PhysicalDevice, ld *LogicalDevice, extent gfx.Extent2D, lc *lifecycle, logger log.FieldLogger) (*DepthResource, error) {
	format, tiling, err := ChooseDepthFormat(pd.FormatProperties)
	if err != nil {
		return nil, err
	}

	usage := gfx.ImageUsageDepthStencilAttachment
	if pd.FormatProperties(format).Features(tiling)&gfx.FormatFeatureSampledImage != 0 {
		usage |= gfx.ImageUsageSampled
	}

	device := ld.Handle
	image, err := drv.CreateImage(device, gfx.ImageInfo{
		Format: format,
		Extent: extent,
		Tiling: tiling,
		Usage:  usage,
	})
	if err != nil {
		return nil, driverFailure(err, "creating depth image")
	}
	lc.acquired("depth image", func() { drv.DestroyImage(device, image) })

	req := drv.ImageMemoryRequirements(device, image)
	typeIndex, err := ResolveMemoryType(pd.Memory, req.TypeBits)
	if err != nil {
		return nil, err
	}

	memory, err := drv.AllocateMemory(device, req.Size, typeIndex)
	if err != nil {
		return nil, driverFailure(err, "allocating %d bytes of depth memory", req.Size)
	}
	lc.acquired("depth memory", func() { drv.FreeMemory(device, memory) })

	if err := drv.BindImageMemory(device, image, memory, 0); err != nil {
		return nil, driverFailure(err, "binding depth memory")
	}

	view, err := drv.CreateImageView(device, gfx.ImageViewInfo{
		Image:  image,
		Format: format,
		Aspect: depthAspect(format),
	})
	if err != nil {
		return nil, driverFailure(err, "creating depth image view")
	}
	lc.acquired("depth image view", func() { drv.DestroyImageView(device, view) })

	logger.WithFields(log.Fields{
		"format":      format,
		"tiling":      tiling,
		"memory_type": typeIndex,
		"size":        req.Size,
	}).Info("depth buffer created")

	return &DepthResource{
		Format: format,
		Tiling: tiling,
		Image:  image,
		Memory: memory,
		View:   view,
	}, nil
}
