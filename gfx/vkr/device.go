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

// CreateDevice implements gfx.Driver.
func (d *Driver) CreateDevice(pd gfx.PhysicalDevice, info gfx.DeviceInfo) (gfx.Device, error) {
	queues := make([]vk.DeviceQueueCreateInfo, len(info.Queues))
	for i, q := range info.Queues {
		queues[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       uint32(len(q.Priorities)),
			PQueuePriorities: q.Priorities,
		}
	}

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queues)),
		PQueueCreateInfos:       queues,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
	}

	var device vk.Device
	if err := check("CreateDevice", vk.CreateDevice(vkPhysicalDevice(pd), &createInfo, nil, &device)); err != nil {
		return 0, err
	}
	return gfx.Device(handle(unsafe.Pointer(device))), nil
}

// DeviceQueue implements gfx.Driver.
func (d *Driver) DeviceQueue(device gfx.Device, family, index uint32) gfx.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(vkDevice(device), family, index, &queue)
	return gfx.Queue(handle(unsafe.Pointer(queue)))
}

// DeviceWaitIdle implements gfx.Driver.
func (d *Driver) DeviceWaitIdle(device gfx.Device) error {
	return check("DeviceWaitIdle", vk.DeviceWaitIdle(vkDevice(device)))
}

// DestroyDevice implements gfx.Driver.
func (d *Driver) DestroyDevice(device gfx.Device) {
	vk.DestroyDevice(vkDevice(device), nil)
}

// CreateSwapchain implements gfx.Driver.
func (d *Driver) CreateSwapchain(device gfx.Device, info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	createInfo := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               vkSurface(info.Surface),
		MinImageCount:         info.MinImageCount,
		ImageFormat:           vk.Format(info.Format.Format),
		ImageColorSpace:       vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:           vk.Extent2D{Width: info.Extent.Width, Height: info.Extent.Height},
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(info.Usage),
		ImageSharingMode:      vk.SharingMode(info.Sharing),
		QueueFamilyIndexCount: uint32(len(info.QueueFamilies)),
		PQueueFamilyIndices:   info.QueueFamilies,
		PreTransform:          vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:        vk.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:           vk.PresentMode(info.PresentMode),
		Clipped:               vk.True,
	}

	var swapchain vk.Swapchain
	if err := check("CreateSwapchain", vk.CreateSwapchain(vkDevice(device), &createInfo, nil, &swapchain)); err != nil {
		return 0, err
	}
	return gfx.Swapchain(handle(unsafe.Pointer(swapchain))), nil
}

// SwapchainImages implements gfx.Driver.
func (d *Driver) SwapchainImages(device gfx.Device, swapchain gfx.Swapchain) ([]gfx.Image, error) {
	var count uint32
	res := vk.GetSwapchainImages(vkDevice(device), vkSwapchain(swapchain), &count, nil)
	if err := check("GetSwapchainImages", res); err != nil {
		return nil, err
	}
	images := make([]vk.Image, count)
	res = vk.GetSwapchainImages(vkDevice(device), vkSwapchain(swapchain), &count, images)
	if err := check("GetSwapchainImages", res); err != nil {
		return nil, err
	}

	out := make([]gfx.Image, count)
	for i, img := range images[:count] {
		out[i] = gfx.Image(handle(unsafe.Pointer(img)))
	}
	return out, nil
}

// DestroySwapchain implements gfx.Driver.
func (d *Driver) DestroySwapchain(device gfx.Device, swapchain gfx.Swapchain) {
	vk.DestroySwapchain(vkDevice(device), vkSwapchain(swapchain), nil)
}
