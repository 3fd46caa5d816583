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

// PhysicalDevices implements gfx.Driver.
func (d *Driver) PhysicalDevices(instance gfx.Instance) ([]gfx.PhysicalDevice, error) {
	var count uint32
	if err := check("EnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(vkInstance(instance), &count, nil)); err != nil {
		return nil, err
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := check("EnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(vkInstance(instance), &count, devices)); err != nil {
		return nil, err
	}

	pds := make([]gfx.PhysicalDevice, count)
	for i, pd := range devices[:count] {
		pds[i] = gfx.PhysicalDevice(handle(unsafe.Pointer(pd)))
	}
	return pds, nil
}

// PhysicalDeviceProperties implements gfx.Driver.
func (d *Driver) PhysicalDeviceProperties(pd gfx.PhysicalDevice) gfx.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(vkPhysicalDevice(pd), &props)
	props.Deref()

	return gfx.PhysicalDeviceProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          gfx.DeviceType(props.DeviceType),
		APIVersion:    gfx.Version(props.ApiVersion),
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
	}
}

// QueueFamilies implements gfx.Driver.
func (d *Driver) QueueFamilies(pd gfx.PhysicalDevice) []gfx.QueueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(vkPhysicalDevice(pd), &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(vkPhysicalDevice(pd), &count, props)

	families := make([]gfx.QueueFamily, count)
	for i := range props[:count] {
		props[i].Deref()
		families[i] = gfx.QueueFamily{
			Flags: gfx.QueueFlags(props[i].QueueFlags),
			Count: props[i].QueueCount,
		}
	}
	return families
}

// SurfaceSupport implements gfx.Driver.
func (d *Driver) SurfaceSupport(pd gfx.PhysicalDevice, family uint32, surface gfx.Surface) (bool, error) {
	var supported vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(vkPhysicalDevice(pd), family, vkSurface(surface), &supported)
	if err := check("GetPhysicalDeviceSurfaceSupport", res); err != nil {
		return false, err
	}
	return supported.B(), nil
}

// SurfaceCapabilities implements gfx.Driver.
func (d *Driver) SurfaceCapabilities(pd gfx.PhysicalDevice, surface gfx.Surface) (gfx.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(vkPhysicalDevice(pd), vkSurface(surface), &caps)
	if err := check("GetPhysicalDeviceSurfaceCapabilities", res); err != nil {
		return gfx.SurfaceCapabilities{}, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return gfx.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           extent(caps.CurrentExtent),
		MinImageExtent:          extent(caps.MinImageExtent),
		MaxImageExtent:          extent(caps.MaxImageExtent),
		SupportedTransforms:     gfx.SurfaceTransform(caps.SupportedTransforms),
		CurrentTransform:        gfx.SurfaceTransform(caps.CurrentTransform),
		SupportedCompositeAlpha: gfx.CompositeAlpha(caps.SupportedCompositeAlpha),
	}, nil
}

func extent(e vk.Extent2D) gfx.Extent2D {
	return gfx.Extent2D{Width: e.Width, Height: e.Height}
}

// SurfaceFormats implements gfx.Driver.
func (d *Driver) SurfaceFormats(pd gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.SurfaceFormat, error) {
	var count uint32
	res := vk.GetPhysicalDeviceSurfaceFormats(vkPhysicalDevice(pd), vkSurface(surface), &count, nil)
	if err := check("GetPhysicalDeviceSurfaceFormats", res); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, count)
	res = vk.GetPhysicalDeviceSurfaceFormats(vkPhysicalDevice(pd), vkSurface(surface), &count, formats)
	if err := check("GetPhysicalDeviceSurfaceFormats", res); err != nil {
		return nil, err
	}

	out := make([]gfx.SurfaceFormat, count)
	for i := range formats[:count] {
		formats[i].Deref()
		out[i] = gfx.SurfaceFormat{
			Format:     gfx.Format(formats[i].Format),
			ColorSpace: gfx.ColorSpace(formats[i].ColorSpace),
		}
	}
	return out, nil
}

// PresentModes implements gfx.Driver.
func (d *Driver) PresentModes(pd gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.PresentMode, error) {
	var count uint32
	res := vk.GetPhysicalDeviceSurfacePresentModes(vkPhysicalDevice(pd), vkSurface(surface), &count, nil)
	if err := check("GetPhysicalDeviceSurfacePresentModes", res); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, count)
	res = vk.GetPhysicalDeviceSurfacePresentModes(vkPhysicalDevice(pd), vkSurface(surface), &count, modes)
	if err := check("GetPhysicalDeviceSurfacePresentModes", res); err != nil {
		return nil, err
	}

	out := make([]gfx.PresentMode, count)
	for i, m := range modes[:count] {
		out[i] = gfx.PresentMode(m)
	}
	return out, nil
}

// FormatProperties implements gfx.Driver.
func (d *Driver) FormatProperties(pd gfx.PhysicalDevice, format gfx.Format) gfx.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(vkPhysicalDevice(pd), vk.Format(format), &props)
	props.Deref()

	return gfx.FormatProperties{
		LinearTiling:  gfx.FormatFeatures(props.LinearTilingFeatures),
		OptimalTiling: gfx.FormatFeatures(props.OptimalTilingFeatures),
	}
}

// MemoryProperties implements gfx.Driver.
func (d *Driver) MemoryProperties(pd gfx.PhysicalDevice) gfx.MemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vkPhysicalDevice(pd), &props)
	props.Deref()

	out := gfx.MemoryProperties{
		Types: make([]gfx.MemoryType, props.MemoryTypeCount),
		Heaps: make([]gfx.MemoryHeap, props.MemoryHeapCount),
	}
	for i := range out.Types {
		props.MemoryTypes[i].Deref()
		out.Types[i] = gfx.MemoryType{
			Properties: gfx.MemoryProperty(props.MemoryTypes[i].PropertyFlags),
			HeapIndex:  props.MemoryTypes[i].HeapIndex,
		}
	}
	for i := range out.Heaps {
		props.MemoryHeaps[i].Deref()
		out.Heaps[i] = gfx.MemoryHeap{
			Size:  uint64(props.MemoryHeaps[i].Size),
			Flags: uint32(props.MemoryHeaps[i].Flags),
		}
	}
	return out
}
