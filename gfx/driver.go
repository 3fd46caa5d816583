// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "fmt"

// InstanceInfo describes the API instance to create.
type InstanceInfo struct {
	ApplicationName string
	EngineName      string
	APIVersion      Version
	Extensions      []string
	Layers          []string
}

// QueueRequest asks for queues from one family.
type QueueRequest struct {
	Family     uint32
	Priorities []float32
}

// DeviceInfo describes the logical device to open.
type DeviceInfo struct {
	Queues     []QueueRequest
	Extensions []string
}

// SwapchainInfo describes a presentable image chain.
type SwapchainInfo struct {
	Surface        Surface
	MinImageCount  uint32
	Format         SurfaceFormat
	Extent         Extent2D
	Usage          ImageUsage
	Sharing        SharingMode
	QueueFamilies  []uint32
	PreTransform   SurfaceTransform
	CompositeAlpha CompositeAlpha
	PresentMode    PresentMode
}

// ImageInfo describes a single-level, single-layer 2D image.
type ImageInfo struct {
	Format Format
	Extent Extent2D
	Tiling ImageTiling
	Usage  ImageUsage
}

// ImageViewInfo describes a 2D view with identity swizzle over
// the first mip level and array layer of an image.
type ImageViewInfo struct {
	Image  Image
	Format Format
	Aspect ImageAspect
}

// Attachment describes how a render pass uses one attachment.
type Attachment struct {
	Format         Format
	LoadOp         LoadOp
	StoreOp        StoreOp
	StencilLoadOp  LoadOp
	StencilStoreOp StoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

// AttachmentRef references an attachment from a subpass.
type AttachmentRef struct {
	Attachment uint32
	Layout     ImageLayout
}

// SubpassDependency is an execution and memory dependency between subpasses.
type SubpassDependency struct {
	SrcSubpass uint32
	DstSubpass uint32
	SrcStage   PipelineStage
	DstStage   PipelineStage
	SrcAccess  Access
	DstAccess  Access
}

// RenderPassInfo describes a single-subpass render pass with one
// color and one depth attachment.
type RenderPassInfo struct {
	Attachments  []Attachment
	Color        AttachmentRef
	Depth        AttachmentRef
	Dependencies []SubpassDependency
}

// FramebufferInfo binds image views to a render pass.
type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      Extent2D
	Layers      uint32
}

// Driver is the boundary between the renderer and the graphics runtime.
// Implementations convert between these types and the native API and
// never retain state the renderer did not ask for; all ownership stays
// with the caller, which must release what it creates.
type Driver interface {
	// Load loads the runtime entry point.
	Load() error

	// InstanceVersion returns the highest instance version the runtime
	// supports; ok is false when the runtime cannot be asked.
	InstanceVersion() (version Version, ok bool)

	// InstanceLayers lists the layers the runtime can enable.
	InstanceLayers() ([]string, error)

	CreateInstance(info InstanceInfo) (Instance, error)
	DestroyInstance(instance Instance)

	// CreateDebugCallback routes runtime diagnostics into the driver's log.
	CreateDebugCallback(instance Instance) (DebugCallback, error)
	DestroyDebugCallback(instance Instance, callback DebugCallback)

	CreateSurface(instance Instance, window Window) (Surface, error)
	DestroySurface(instance Instance, surface Surface)

	PhysicalDevices(instance Instance) ([]PhysicalDevice, error)
	PhysicalDeviceProperties(pd PhysicalDevice) PhysicalDeviceProperties
	QueueFamilies(pd PhysicalDevice) []QueueFamily
	SurfaceSupport(pd PhysicalDevice, family uint32, surface Surface) (bool, error)
	SurfaceCapabilities(pd PhysicalDevice, surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(pd PhysicalDevice, surface Surface) ([]SurfaceFormat, error)
	PresentModes(pd PhysicalDevice, surface Surface) ([]PresentMode, error)
	FormatProperties(pd PhysicalDevice, format Format) FormatProperties
	MemoryProperties(pd PhysicalDevice) MemoryProperties

	CreateDevice(pd PhysicalDevice, info DeviceInfo) (Device, error)
	DeviceQueue(device Device, family, index uint32) Queue
	DeviceWaitIdle(device Device) error
	DestroyDevice(device Device)

	CreateSwapchain(device Device, info SwapchainInfo) (Swapchain, error)
	SwapchainImages(device Device, swapchain Swapchain) ([]Image, error)
	DestroySwapchain(device Device, swapchain Swapchain)

	CreateImage(device Device, info ImageInfo) (Image, error)
	ImageMemoryRequirements(device Device, image Image) MemoryRequirements
	DestroyImage(device Device, image Image)

	AllocateMemory(device Device, size uint64, typeIndex uint32) (DeviceMemory, error)
	BindImageMemory(device Device, image Image, memory DeviceMemory, offset uint64) error
	FreeMemory(device Device, memory DeviceMemory)

	CreateImageView(device Device, info ImageViewInfo) (ImageView, error)
	DestroyImageView(device Device, view ImageView)

	CreateRenderPass(device Device, info RenderPassInfo) (RenderPass, error)
	DestroyRenderPass(device Device, pass RenderPass)

	CreateFramebuffer(device Device, info FramebufferInfo) (Framebuffer, error)
	DestroyFramebuffer(device Device, framebuffer Framebuffer)
}

// Result is a native API result code.
type Result int32

var resultNames = map[Result]string{
	0:           "SUCCESS",
	1:           "NOT_READY",
	2:           "TIMEOUT",
	5:           "INCOMPLETE",
	-1:          "ERROR_OUT_OF_HOST_MEMORY",
	-2:          "ERROR_OUT_OF_DEVICE_MEMORY",
	-3:          "ERROR_INITIALIZATION_FAILED",
	-4:          "ERROR_DEVICE_LOST",
	-5:          "ERROR_MEMORY_MAP_FAILED",
	-6:          "ERROR_LAYER_NOT_PRESENT",
	-7:          "ERROR_EXTENSION_NOT_PRESENT",
	-8:          "ERROR_FEATURE_NOT_PRESENT",
	-9:          "ERROR_INCOMPATIBLE_DRIVER",
	-10:         "ERROR_TOO_MANY_OBJECTS",
	-11:         "ERROR_FORMAT_NOT_SUPPORTED",
	-1000000000: "ERROR_SURFACE_LOST_KHR",
	-1000000001: "ERROR_NATIVE_WINDOW_IN_USE_KHR",
	-1000001004: "ERROR_OUT_OF_DATE_KHR",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// ResultError is returned by a Driver when the runtime rejects a call.
type ResultError struct {
	Op     string
	Result Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s(): %s", e.Op, e.Result)
}
