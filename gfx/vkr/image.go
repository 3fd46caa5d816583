// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	"github.com/devblok/gpengine/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateImage implements gfx.Driver.
func (d *Driver) CreateImage(device gfx.Device, info gfx.ImageInfo) (gfx.Image, error) {
	createInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.Format(info.Format),
		Extent: vk.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTiling(info.Tiling),
		Usage:         vk.ImageUsageFlags(info.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if err := check("CreateImage", vk.CreateImage(vkDevice(device), &createInfo, nil, &image)); err != nil {
		return 0, err
	}
	return gfx.Image(handle(unsafe.Pointer(image))), nil
}

// ImageMemoryRequirements implements gfx.Driver.
func (d *Driver) ImageMemoryRequirements(device gfx.Device, image gfx.Image) gfx.MemoryRequirements {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(vkDevice(device), vkImage(image), &req)
	req.Deref()

	return gfx.MemoryRequirements{
		Size:      uint64(req.Size),
		Alignment: uint64(req.Alignment),
		TypeBits:  req.MemoryTypeBits,
	}
}

// DestroyImage implements gfx.Driver.
func (d *Driver) DestroyImage(device gfx.Device, image gfx.Image) {
	vk.DestroyImage(vkDevice(device), vkImage(image), nil)
}

// AllocateMemory implements gfx.Driver.
func (d *Driver) AllocateMemory(device gfx.Device, size uint64, typeIndex uint32) (gfx.DeviceMemory, error) {
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}

	var memory vk.DeviceMemory
	if err := check("AllocateMemory", vk.AllocateMemory(vkDevice(device), &allocInfo, nil, &memory)); err != nil {
		return 0, err
	}
	return gfx.DeviceMemory(handle(unsafe.Pointer(memory))), nil
}

// BindImageMemory implements gfx.Driver.
func (d *Driver) BindImageMemory(device gfx.Device, image gfx.Image, memory gfx.DeviceMemory, offset uint64) error {
	res := vk.BindImageMemory(vkDevice(device), vkImage(image), vkMemory(memory), vk.DeviceSize(offset))
	return check("BindImageMemory", res)
}

// FreeMemory implements gfx.Driver.
func (d *Driver) FreeMemory(device gfx.Device, memory gfx.DeviceMemory) {
	vk.FreeMemory(vkDevice(device), vkMemory(memory), nil)
}

// CreateImageView implements gfx.Driver.
func (d *Driver) CreateImageView(device gfx.Device, info gfx.ImageViewInfo) (gfx.ImageView, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    vkImage(info.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(info.Aspect),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if err := check("CreateImageView", vk.CreateImageView(vkDevice(device), &createInfo, nil, &view)); err != nil {
		return 0, err
	}
	return gfx.ImageView(handle(unsafe.Pointer(view))), nil
}

// DestroyImageView implements gfx.Driver.
func (d *Driver) DestroyImageView(device gfx.Device, view gfx.ImageView) {
	vk.DestroyImageView(vkDevice(device), vkImageView(view), nil)
}
