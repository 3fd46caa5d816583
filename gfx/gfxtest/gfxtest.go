// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfxtest provides an in-memory gfx.Driver and gfx.Window for tests.
// The driver hands out fake handles, remembers what it was asked to create
// and records every create and destroy call in order.
package gfxtest

import (
	"errors"
	"unsafe"

	"github.com/devblok/gpengine/gfx"
)

// Device is a scripted physical device.
type Device struct {
	Properties    gfx.PhysicalDeviceProperties
	QueueFamilies []gfx.QueueFamily

	// Present lists, per queue family, whether it can present.
	// Families beyond its length cannot.
	Present []bool

	Formats      []gfx.SurfaceFormat
	PresentModes []gfx.PresentMode
	Capabilities gfx.SurfaceCapabilities
	Depth        map[gfx.Format]gfx.FormatProperties
	Memory       gfx.MemoryProperties

	// ImageRequirements is reported for every image created on the device.
	ImageRequirements gfx.MemoryRequirements
}

// GPU returns a device of the given type that satisfies every requirement
// of the renderer with a single universal queue family.
func GPU(name string, kind gfx.DeviceType) *Device {
	optimal := gfx.FormatProperties{
		OptimalTiling: gfx.FormatFeatureDepthStencilAttachment | gfx.FormatFeatureSampledImage,
	}
	depth := make(map[gfx.Format]gfx.FormatProperties)
	for _, f := range []gfx.Format{
		gfx.FormatD32SfloatS8Uint,
		gfx.FormatD32Sfloat,
		gfx.FormatD24UnormS8Uint,
		gfx.FormatD16UnormS8Uint,
		gfx.FormatD16Unorm,
	} {
		depth[f] = optimal
	}

	return &Device{
		Properties: gfx.PhysicalDeviceProperties{
			Name:       name,
			Type:       kind,
			APIVersion: gfx.MakeVersion(1, 1, 0),
		},
		QueueFamilies: []gfx.QueueFamily{
			{Flags: gfx.QueueGraphics | gfx.QueueCompute | gfx.QueueTransfer, Count: 16},
		},
		Present: []bool{true},
		Formats: []gfx.SurfaceFormat{
			{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeMailbox},
		Capabilities: gfx.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           8,
			CurrentExtent:           gfx.Extent2D{Width: 800, Height: 600},
			MinImageExtent:          gfx.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          gfx.Extent2D{Width: 4096, Height: 4096},
			SupportedTransforms:     gfx.SurfaceTransformIdentity,
			CurrentTransform:        gfx.SurfaceTransformIdentity,
			SupportedCompositeAlpha: gfx.CompositeAlphaOpaque,
		},
		Depth: depth,
		Memory: gfx.MemoryProperties{
			Types: []gfx.MemoryType{
				{Properties: gfx.MemoryHostVisible | gfx.MemoryHostCoherent},
				{Properties: gfx.MemoryDeviceLocal},
			},
			Heaps: []gfx.MemoryHeap{{Size: 1 << 30}},
		},
		ImageRequirements: gfx.MemoryRequirements{
			Size:      800 * 600 * 4,
			Alignment: 256,
			TypeBits:  0x3,
		},
	}
}

// Call is one recorded create or destroy.
type Call struct {
	Op     string
	Handle uintptr
}

type failure struct {
	nth    int
	result gfx.Result
}

// Driver is a scripted gfx.Driver.
type Driver struct {
	Devices []*Device

	// Version is reported by InstanceVersion when VersionKnown is set.
	Version      gfx.Version
	VersionKnown bool

	Layers  []string
	LoadErr error

	// Calls lists every create and destroy in the order they happened.
	Calls []Call

	// Probed lists the queue families whose presentation support was queried.
	Probed []uint32

	// Requests made by the last successful creations.
	Instance    gfx.InstanceInfo
	Device      gfx.DeviceInfo
	Swapchain   gfx.SwapchainInfo
	Image       gfx.ImageInfo
	Views       []gfx.ImageViewInfo
	RenderPass  gfx.RenderPassInfo
	Framebuffer []gfx.FramebufferInfo
	MemoryType  uint32
	BindOffset  uint64
	WaitedIdle  int

	live     map[uintptr]string
	devices  map[gfx.Device]*Device
	images   map[gfx.Image]*Device
	counts   map[string]int
	failures map[string]failure
	next     uintptr
}

// NewDriver returns a driver whose runtime reports version 1.1.0
// and the given devices.
func NewDriver(devices ...*Device) *Driver {
	return &Driver{
		Devices:      devices,
		Version:      gfx.MakeVersion(1, 1, 0),
		VersionKnown: true,
		live:         make(map[uintptr]string),
		devices:      make(map[gfx.Device]*Device),
		images:       make(map[gfx.Image]*Device),
		counts:       make(map[string]int),
		failures:     make(map[string]failure),
	}
}

// Fail makes every call of op fail with result.
func (d *Driver) Fail(op string, result gfx.Result) {
	d.failures[op] = failure{result: result}
}

// FailNth makes only the nth call (counting from 1) of op fail with result.
func (d *Driver) FailNth(op string, nth int, result gfx.Result) {
	d.failures[op] = failure{nth: nth, result: result}
}

// Live returns the number of handles created and not yet destroyed.
func (d *Driver) Live() int {
	return len(d.live)
}

// Ops returns the names of recorded calls whose op starts with prefix.
func (d *Driver) Ops(prefix string) []string {
	var ops []string
	for _, c := range d.Calls {
		if len(c.Op) >= len(prefix) && c.Op[:len(prefix)] == prefix {
			ops = append(ops, c.Op)
		}
	}
	return ops
}

// Created returns the handles of every create call in order.
func (d *Driver) Created() []uintptr {
	return d.handles("Create")
}

// Destroyed returns the handles of every destroy call in order.
func (d *Driver) Destroyed() []uintptr {
	return d.handles("Destroy")
}

func (d *Driver) handles(prefix string) []uintptr {
	var hs []uintptr
	for _, c := range d.Calls {
		if len(c.Op) >= len(prefix) && c.Op[:len(prefix)] == prefix {
			hs = append(hs, c.Handle)
		}
	}
	return hs
}

func (d *Driver) check(op string) error {
	d.counts[op]++
	f, ok := d.failures[op]
	if !ok || (f.nth != 0 && f.nth != d.counts[op]) {
		return nil
	}
	return &gfx.ResultError{Op: "vk." + op, Result: f.result}
}

func (d *Driver) create(op string) (uintptr, error) {
	if err := d.check(op); err != nil {
		return 0, err
	}
	d.next++
	d.live[d.next] = op
	d.Calls = append(d.Calls, Call{Op: "Create" + op, Handle: d.next})
	return d.next, nil
}

func (d *Driver) destroy(op string, h uintptr) {
	delete(d.live, h)
	d.Calls = append(d.Calls, Call{Op: "Destroy" + op, Handle: h})
}

func (d *Driver) physical(pd gfx.PhysicalDevice) *Device {
	return d.Devices[int(pd)-1]
}

// Load implements gfx.Driver.
func (d *Driver) Load() error {
	return d.LoadErr
}

// InstanceVersion implements gfx.Driver.
func (d *Driver) InstanceVersion() (gfx.Version, bool) {
	return d.Version, d.VersionKnown
}

// InstanceLayers implements gfx.Driver.
func (d *Driver) InstanceLayers() ([]string, error) {
	if err := d.check("EnumerateInstanceLayerProperties"); err != nil {
		return nil, err
	}
	return d.Layers, nil
}

// CreateInstance implements gfx.Driver.
func (d *Driver) CreateInstance(info gfx.InstanceInfo) (gfx.Instance, error) {
	h, err := d.create("Instance")
	if err != nil {
		return 0, err
	}
	d.Instance = info
	return gfx.Instance(h), nil
}

// DestroyInstance implements gfx.Driver.
func (d *Driver) DestroyInstance(instance gfx.Instance) {
	d.destroy("Instance", uintptr(instance))
}

// CreateDebugCallback implements gfx.Driver.
func (d *Driver) CreateDebugCallback(instance gfx.Instance) (gfx.DebugCallback, error) {
	h, err := d.create("DebugCallback")
	return gfx.DebugCallback(h), err
}

// DestroyDebugCallback implements gfx.Driver.
func (d *Driver) DestroyDebugCallback(instance gfx.Instance, callback gfx.DebugCallback) {
	d.destroy("DebugCallback", uintptr(callback))
}

// CreateSurface implements gfx.Driver.
func (d *Driver) CreateSurface(instance gfx.Instance, window gfx.Window) (gfx.Surface, error) {
	if _, err := window.CreateSurface(instance); err != nil {
		return 0, err
	}
	h, err := d.create("Surface")
	return gfx.Surface(h), err
}

// DestroySurface implements gfx.Driver.
func (d *Driver) DestroySurface(instance gfx.Instance, surface gfx.Surface) {
	d.destroy("Surface", uintptr(surface))
}

// PhysicalDevices implements gfx.Driver. Handles are one-based
// indices into Devices.
func (d *Driver) PhysicalDevices(instance gfx.Instance) ([]gfx.PhysicalDevice, error) {
	if err := d.check("EnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	pds := make([]gfx.PhysicalDevice, len(d.Devices))
	for i := range d.Devices {
		pds[i] = gfx.PhysicalDevice(i + 1)
	}
	return pds, nil
}

// PhysicalDeviceProperties implements gfx.Driver.
func (d *Driver) PhysicalDeviceProperties(pd gfx.PhysicalDevice) gfx.PhysicalDeviceProperties {
	return d.physical(pd).Properties
}

// QueueFamilies implements gfx.Driver.
func (d *Driver) QueueFamilies(pd gfx.PhysicalDevice) []gfx.QueueFamily {
	return d.physical(pd).QueueFamilies
}

// SurfaceSupport implements gfx.Driver.
func (d *Driver) SurfaceSupport(pd gfx.PhysicalDevice, family uint32, surface gfx.Surface) (bool, error) {
	if err := d.check("GetPhysicalDeviceSurfaceSupport"); err != nil {
		return false, err
	}
	d.Probed = append(d.Probed, family)
	present := d.physical(pd).Present
	return int(family) < len(present) && present[family], nil
}

// SurfaceCapabilities implements gfx.Driver.
func (d *Driver) SurfaceCapabilities(pd gfx.PhysicalDevice, surface gfx.Surface) (gfx.SurfaceCapabilities, error) {
	if err := d.check("GetPhysicalDeviceSurfaceCapabilities"); err != nil {
		return gfx.SurfaceCapabilities{}, err
	}
	return d.physical(pd).Capabilities, nil
}

// SurfaceFormats implements gfx.Driver.
func (d *Driver) SurfaceFormats(pd gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.SurfaceFormat, error) {
	if err := d.check("GetPhysicalDeviceSurfaceFormats"); err != nil {
		return nil, err
	}
	return d.physical(pd).Formats, nil
}

// PresentModes implements gfx.Driver.
func (d *Driver) PresentModes(pd gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.PresentMode, error) {
	if err := d.check("GetPhysicalDeviceSurfacePresentModes"); err != nil {
		return nil, err
	}
	return d.physical(pd).PresentModes, nil
}

// FormatProperties implements gfx.Driver.
func (d *Driver) FormatProperties(pd gfx.PhysicalDevice, format gfx.Format) gfx.FormatProperties {
	return d.physical(pd).Depth[format]
}

// MemoryProperties implements gfx.Driver.
func (d *Driver) MemoryProperties(pd gfx.PhysicalDevice) gfx.MemoryProperties {
	return d.physical(pd).Memory
}

// CreateDevice implements gfx.Driver.
func (d *Driver) CreateDevice(pd gfx.PhysicalDevice, info gfx.DeviceInfo) (gfx.Device, error) {
	h, err := d.create("Device")
	if err != nil {
		return 0, err
	}
	d.Device = info
	d.devices[gfx.Device(h)] = d.physical(pd)
	return gfx.Device(h), nil
}

// DeviceQueue implements gfx.Driver. The queue handle encodes
// family and index so tests can tell queues apart.
func (d *Driver) DeviceQueue(device gfx.Device, family, index uint32) gfx.Queue {
	return gfx.Queue(uintptr(family+1)<<8 | uintptr(index))
}

// DeviceWaitIdle implements gfx.Driver.
func (d *Driver) DeviceWaitIdle(device gfx.Device) error {
	d.WaitedIdle++
	d.Calls = append(d.Calls, Call{Op: "DeviceWaitIdle", Handle: uintptr(device)})
	return d.check("DeviceWaitIdle")
}

// DestroyDevice implements gfx.Driver.
func (d *Driver) DestroyDevice(device gfx.Device) {
	d.destroy("Device", uintptr(device))
}

// CreateSwapchain implements gfx.Driver.
func (d *Driver) CreateSwapchain(device gfx.Device, info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	h, err := d.create("Swapchain")
	if err != nil {
		return 0, err
	}
	d.Swapchain = info
	return gfx.Swapchain(h), nil
}

// SwapchainImages implements gfx.Driver. The chain holds exactly
// the minimum image count it was created with.
func (d *Driver) SwapchainImages(device gfx.Device, swapchain gfx.Swapchain) ([]gfx.Image, error) {
	if err := d.check("GetSwapchainImages"); err != nil {
		return nil, err
	}
	images := make([]gfx.Image, d.Swapchain.MinImageCount)
	for i := range images {
		d.next++
		images[i] = gfx.Image(d.next)
	}
	return images, nil
}

// DestroySwapchain implements gfx.Driver.
func (d *Driver) DestroySwapchain(device gfx.Device, swapchain gfx.Swapchain) {
	d.destroy("Swapchain", uintptr(swapchain))
}

// CreateImage implements gfx.Driver.
func (d *Driver) CreateImage(device gfx.Device, info gfx.ImageInfo) (gfx.Image, error) {
	h, err := d.create("Image")
	if err != nil {
		return 0, err
	}
	d.Image = info
	d.images[gfx.Image(h)] = d.devices[device]
	return gfx.Image(h), nil
}

// ImageMemoryRequirements implements gfx.Driver.
func (d *Driver) ImageMemoryRequirements(device gfx.Device, image gfx.Image) gfx.MemoryRequirements {
	if pd, ok := d.images[image]; ok {
		return pd.ImageRequirements
	}
	return gfx.MemoryRequirements{}
}

// DestroyImage implements gfx.Driver.
func (d *Driver) DestroyImage(device gfx.Device, image gfx.Image) {
	d.destroy("Image", uintptr(image))
}

// AllocateMemory implements gfx.Driver.
func (d *Driver) AllocateMemory(device gfx.Device, size uint64, typeIndex uint32) (gfx.DeviceMemory, error) {
	h, err := d.create("Memory")
	if err != nil {
		return 0, err
	}
	d.MemoryType = typeIndex
	return gfx.DeviceMemory(h), nil
}

// BindImageMemory implements gfx.Driver.
func (d *Driver) BindImageMemory(device gfx.Device, image gfx.Image, memory gfx.DeviceMemory, offset uint64) error {
	if err := d.check("BindImageMemory"); err != nil {
		return err
	}
	d.BindOffset = offset
	return nil
}

// FreeMemory implements gfx.Driver.
func (d *Driver) FreeMemory(device gfx.Device, memory gfx.DeviceMemory) {
	d.destroy("Memory", uintptr(memory))
}

// CreateImageView implements gfx.Driver.
func (d *Driver) CreateImageView(device gfx.Device, info gfx.ImageViewInfo) (gfx.ImageView, error) {
	h, err := d.create("ImageView")
	if err != nil {
		return 0, err
	}
	d.Views = append(d.Views, info)
	return gfx.ImageView(h), nil
}

// DestroyImageView implements gfx.Driver.
func (d *Driver) DestroyImageView(device gfx.Device, view gfx.ImageView) {
	d.destroy("ImageView", uintptr(view))
}

// CreateRenderPass implements gfx.Driver.
func (d *Driver) CreateRenderPass(device gfx.Device, info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	h, err := d.create("RenderPass")
	if err != nil {
		return 0, err
	}
	d.RenderPass = info
	return gfx.RenderPass(h), nil
}

// DestroyRenderPass implements gfx.Driver.
func (d *Driver) DestroyRenderPass(device gfx.Device, pass gfx.RenderPass) {
	d.destroy("RenderPass", uintptr(pass))
}

// CreateFramebuffer implements gfx.Driver.
func (d *Driver) CreateFramebuffer(device gfx.Device, info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	h, err := d.create("Framebuffer")
	if err != nil {
		return 0, err
	}
	d.Framebuffer = append(d.Framebuffer, info)
	return gfx.Framebuffer(h), nil
}

// DestroyFramebuffer implements gfx.Driver.
func (d *Driver) DestroyFramebuffer(device gfx.Device, framebuffer gfx.Framebuffer) {
	d.destroy("Framebuffer", uintptr(framebuffer))
}

// ErrNoSurface is returned by a Window whose surface creation is set to fail.
var ErrNoSurface = errors.New("window cannot create a surface")

// Window is a gfx.Window of fixed size.
type Window struct {
	Extensions []string
	Width      uint32
	Height     uint32

	// NoSurface makes CreateSurface fail with ErrNoSurface.
	NoSurface bool

	surface byte
}

// NewWindow returns a window of the given size requiring the usual
// surface extensions.
func NewWindow(width, height uint32) *Window {
	return &Window{
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		Width:      width,
		Height:     height,
	}
}

// InstanceExtensions implements gfx.Window.
func (w *Window) InstanceExtensions() []string {
	return w.Extensions
}

// DrawableSize implements gfx.Window.
func (w *Window) DrawableSize() (uint32, uint32) {
	return w.Width, w.Height
}

// CreateSurface implements gfx.Window.
func (w *Window) CreateSurface(instance interface{}) (unsafe.Pointer, error) {
	if w.NoSurface {
		return nil, ErrNoSurface
	}
	return unsafe.Pointer(&w.surface), nil
}
