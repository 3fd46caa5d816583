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

// Every Vulkan handle is pointer sized on the 64-bit platforms the
// renderer supports, so handles cross the gfx boundary as uintptr.

func vkInstance(h gfx.Instance) vk.Instance { return vk.Instance(unsafe.Pointer(h)) }

func vkPhysicalDevice(h gfx.PhysicalDevice) vk.PhysicalDevice {
	return vk.PhysicalDevice(unsafe.Pointer(h))
}

func vkDevice(h gfx.Device) vk.Device { return vk.Device(unsafe.Pointer(h)) }

func vkSurface(h gfx.Surface) vk.Surface { return vk.SurfaceFromPointer(uintptr(h)) }

func vkSwapchain(h gfx.Swapchain) vk.Swapchain { return vk.Swapchain(unsafe.Pointer(h)) }

func vkImage(h gfx.Image) vk.Image { return vk.Image(unsafe.Pointer(h)) }

func vkImageView(h gfx.ImageView) vk.ImageView { return vk.ImageView(unsafe.Pointer(h)) }

func vkMemory(h gfx.DeviceMemory) vk.DeviceMemory { return vk.DeviceMemory(unsafe.Pointer(h)) }

func vkRenderPass(h gfx.RenderPass) vk.RenderPass { return vk.RenderPass(unsafe.Pointer(h)) }

func vkFramebuffer(h gfx.Framebuffer) vk.Framebuffer {
	return vk.Framebuffer(unsafe.Pointer(h))
}

func vkDebugCallback(h gfx.DebugCallback) vk.DebugReportCallback {
	return vk.DebugReportCallback(unsafe.Pointer(h))
}

func handle(p unsafe.Pointer) uintptr { return uintptr(p) }

// safeStrings null-terminates strings handed to the driver.
func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s + "\x00"
	}
	return out
}

func check(op string, res vk.Result) error {
	if res == vk.Success {
		return nil
	}
	return &gfx.ResultError{Op: "vk." + op, Result: gfx.Result(res)}
}
