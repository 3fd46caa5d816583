// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// PreferredSurfaceFormats are tried in order before settling for whatever
// the surface lists first.
var PreferredSurfaceFormats = []gfx.SurfaceFormat{
	{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear},
	{Format: gfx.FormatR8G8B8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear},
}

// SwapchainState is the negotiated presentable image chain.
type SwapchainState struct {
	Handle      gfx.Swapchain
	Format      gfx.SurfaceFormat
	PresentMode gfx.PresentMode
	Extent      gfx.Extent2D
	ImageCount  uint32
	Sharing     gfx.SharingMode

	Images []gfx.Image
	Views  []gfx.ImageView
}

// ChoosePresentMode prefers mailbox and falls back to FIFO,
// which every surface supports.
func ChoosePresentMode(modes []gfx.PresentMode) gfx.PresentMode {
	for _, m := range modes {
		if m == gfx.PresentModeMailbox {
			return m
		}
	}
	return gfx.PresentModeFifo
}

// ChooseSurfaceFormat picks the first preferred format the surface lists.
// A single undefined entry means the surface takes any format.
func ChooseSurfaceFormat(formats []gfx.SurfaceFormat) (gfx.SurfaceFormat, error) {
	if len(formats) == 0 {
		return gfx.SurfaceFormat{}, unsupported("surface lists no formats")
	}
	if len(formats) == 1 && formats[0].Format == gfx.FormatUndefined {
		return PreferredSurfaceFormats[0], nil
	}

	for _, want := range PreferredSurfaceFormats {
		for _, f := range formats {
			if f == want {
				return f, nil
			}
		}
	}
	return formats[0], nil
}

// ChooseExtent uses the surface's current extent unless the surface leaves
// it to the swapchain, then the window's drawable size within the surface
// limits.
func ChooseExtent(caps gfx.SurfaceCapabilities, win gfx.Window) gfx.Extent2D {
	if caps.CurrentExtent.Width != gfx.UndefinedExtent {
		return caps.CurrentExtent
	}

	w, h := win.DrawableSize()
	return gfx.Extent2D{
		Width:  clamp(w, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(h, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if hi != 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ImageCount asks for one image more than the minimum, within the maximum.
// A maximum of zero means there is none.
func ImageCount(caps gfx.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// SharingFor returns how swapchain images are shared between the
// graphics and present families, and the families to list when concurrent.
func SharingFor(q QueueFamilies) (gfx.SharingMode, []uint32) {
	if q.Graphics == q.Present {
		return gfx.SharingExclusive, nil
	}
	return gfx.SharingConcurrent, []uint32{q.Graphics, q.Present}
}

func preTransform(caps gfx.SurfaceCapabilities) gfx.SurfaceTransform {
	if caps.SupportedTransforms&gfx.SurfaceTransformIdentity != 0 {
		return gfx.SurfaceTransformIdentity
	}
	return caps.CurrentTransform
}

func compositeAlpha(caps gfx.SurfaceCapabilities) gfx.CompositeAlpha {
	for _, a := range []gfx.CompositeAlpha{
		gfx.CompositeAlphaOpaque,
		gfx.CompositeAlphaPreMultiplied,
		gfx.CompositeAlphaPostMultiplied,
		gfx.CompositeAlphaInherit,
	} {
		if caps.SupportedCompositeAlpha&a != 0 {
			return a
		}
	}
	return gfx.CompositeAlphaOpaque
}

func createSwapchain(drv gfx.Driver, win gfx.Window, surface gfx.Surface, pd *PhysicalDevice, ld *LogicalDevice, lc *lifecycle, logger log.FieldLogger) (*SwapchainState, error) {
	caps, err := drv.SurfaceCapabilities(pd.Handle, surface)
	if err != nil {
		return nil, driverFailure(err, "querying surface capabilities")
	}
	format, err := ChooseSurfaceFormat(pd.SurfaceFormats)
	if err != nil {
		return nil, err
	}

	sharing, families := SharingFor(ld.Families)
	sc := &SwapchainState{
		Format:      format,
		PresentMode: ChoosePresentMode(pd.PresentModes),
		Extent:      ChooseExtent(caps, win),
		ImageCount:  ImageCount(caps),
		Sharing:     sharing,
	}

	handle, err := drv.CreateSwapchain(ld.Handle, gfx.SwapchainInfo{
		Surface:        surface,
		MinImageCount:  sc.ImageCount,
		Format:         sc.Format,
		Extent:         sc.Extent,
		Usage:          gfx.ImageUsageColorAttachment,
		Sharing:        sharing,
		QueueFamilies:  families,
		PreTransform:   preTransform(caps),
		CompositeAlpha: compositeAlpha(caps),
		PresentMode:    sc.PresentMode,
	})
	if err != nil {
		return nil, driverFailure(err, "creating swapchain")
	}
	sc.Handle = handle
	lc.acquired("swapchain", func() { drv.DestroySwapchain(ld.Handle, handle) })

	images, err := drv.SwapchainImages(ld.Handle, handle)
	if err != nil {
		return nil, driverFailure(err, "reading swapchain images")
	}
	sc.Images = images

	for idx, image := range images {
		view, err := drv.CreateImageView(ld.Handle, gfx.ImageViewInfo{
			Image:  image,
			Format: format.Format,
			Aspect: gfx.AspectColor,
		})
		if err != nil {
			return nil, driverFailure(err, "creating view of swapchain image %d", idx)
		}
		sc.Views = append(sc.Views, view)
		lc.acquired("swapchain image view", func() { drv.DestroyImageView(ld.Handle, view) })
	}

	logger.WithFields(log.Fields{
		"format":       format.Format,
		"present_mode": sc.PresentMode,
		"extent":       sc.Extent,
		"images":       len(images),
		"sharing":      sharing,
	}).Info("swapchain created")
	return sc, nil
}
