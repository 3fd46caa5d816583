// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "fmt"

// Opaque driver handles. The zero value is the null handle.
type (
	Instance       uintptr
	DebugCallback  uintptr
	Surface        uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
	Swapchain      uintptr
	Image          uintptr
	ImageView      uintptr
	DeviceMemory   uintptr
	RenderPass     uintptr
	Framebuffer    uintptr
)

// Version is a packed API version number.
type Version uint32

// MakeVersion packs a major.minor.patch version.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Major returns the major component.
func (v Version) Major() uint32 { return uint32(v) >> 22 }

// Minor returns the minor component.
func (v Version) Minor() uint32 { return uint32(v) >> 12 & 0x3ff }

// Patch returns the patch component.
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// DeviceType classifies a physical device.
type DeviceType uint32

// Device type classes
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = [...]string{"other", "integrated", "discrete", "virtual", "cpu"}

func (t DeviceType) String() string {
	if int(t) < len(deviceTypeNames) {
		return deviceTypeNames[t]
	}
	return fmt.Sprintf("DeviceType(%d)", uint32(t))
}

// MarshalText lets device reports carry readable types.
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// QueueFlags is the capability bitmask of a queue family.
type QueueFlags uint32

// Queue capability bits
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// Has reports whether every bit in f is set.
func (q QueueFlags) Has(f QueueFlags) bool {
	return q&f == f
}

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// Format is an image format.
type Format uint32

// Formats used by the renderer
const (
	FormatUndefined       Format = 0
	FormatR8G8B8A8Unorm   Format = 37
	FormatB8G8R8A8Unorm   Format = 44
	FormatB8G8R8A8Srgb    Format = 50
	FormatD16Unorm        Format = 124
	FormatD32Sfloat       Format = 126
	FormatD16UnormS8Uint  Format = 128
	FormatD24UnormS8Uint  Format = 129
	FormatD32SfloatS8Uint Format = 130
)

// HasStencil reports whether the format carries a stencil component.
func (f Format) HasStencil() bool {
	switch f {
	case FormatD16UnormS8Uint, FormatD24UnormS8Uint, FormatD32SfloatS8Uint:
		return true
	}
	return false
}

// ColorSpace is a presentation color space.
type ColorSpace uint32

// ColorSpaceSrgbNonlinear is the perceptual sRGB color space.
const ColorSpaceSrgbNonlinear ColorSpace = 0

// SurfaceFormat pairs a format with its color space.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// PresentMode is a swapchain presentation mode.
type PresentMode uint32

// Presentation modes
const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFifo
	PresentModeFifoRelaxed
)

// Extent2D is a size in pixels.
type Extent2D struct {
	Width, Height uint32
}

// UndefinedExtent is reported as the current extent by surfaces
// whose size is decided by the swapchain.
const UndefinedExtent = ^uint32(0)

// SurfaceTransform flags
type SurfaceTransform uint32

// SurfaceTransformIdentity leaves images untransformed.
const SurfaceTransformIdentity SurfaceTransform = 1

// CompositeAlpha flags
type CompositeAlpha uint32

// Composite alpha modes, in preference order
const (
	CompositeAlphaOpaque CompositeAlpha = 1 << iota
	CompositeAlphaPreMultiplied
	CompositeAlphaPostMultiplied
	CompositeAlphaInherit
)

// SurfaceCapabilities describes what a surface accepts.
type SurfaceCapabilities struct {
	MinImageCount           uint32
	MaxImageCount           uint32
	CurrentExtent           Extent2D
	MinImageExtent          Extent2D
	MaxImageExtent          Extent2D
	SupportedTransforms     SurfaceTransform
	CurrentTransform        SurfaceTransform
	SupportedCompositeAlpha CompositeAlpha
}

// ImageTiling is the memory arrangement of an image.
type ImageTiling uint32

// Tiling modes
const (
	TilingOptimal ImageTiling = iota
	TilingLinear
)

func (t ImageTiling) String() string {
	if t == TilingLinear {
		return "linear"
	}
	return "optimal"
}

// FormatFeatures is a bitmask of what a format supports for a tiling.
type FormatFeatures uint32

// Format feature bits
const (
	FormatFeatureSampledImage           FormatFeatures = 0x001
	FormatFeatureDepthStencilAttachment FormatFeatures = 0x200
)

// FormatProperties is the feature support of one format.
type FormatProperties struct {
	LinearTiling  FormatFeatures
	OptimalTiling FormatFeatures
}

// Features returns the feature set for the given tiling.
func (p FormatProperties) Features(t ImageTiling) FormatFeatures {
	if t == TilingLinear {
		return p.LinearTiling
	}
	return p.OptimalTiling
}

// MemoryProperty flags
type MemoryProperty uint32

// Memory property bits
const (
	MemoryDeviceLocal MemoryProperty = 1 << iota
	MemoryHostVisible
	MemoryHostCoherent
	MemoryHostCached
	MemoryLazilyAllocated
)

// MemoryType is one entry of a device's memory type table.
type MemoryType struct {
	Properties MemoryProperty
	HeapIndex  uint32
}

// MemoryHeap is one heap of device memory.
type MemoryHeap struct {
	Size  uint64
	Flags uint32
}

// MemoryProperties is the memory layout of a physical device.
type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}

// MemoryRequirements of a resource.
type MemoryRequirements struct {
	Size      uint64
	Alignment uint64
	TypeBits  uint32
}

// PhysicalDeviceProperties are the identifying facts of a device.
type PhysicalDeviceProperties struct {
	Name          string
	Type          DeviceType
	APIVersion    Version
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
}

// SharingMode of an image across queue families.
type SharingMode uint32

// Sharing modes
const (
	SharingExclusive SharingMode = iota
	SharingConcurrent
)

func (m SharingMode) String() string {
	if m == SharingConcurrent {
		return "concurrent"
	}
	return "exclusive"
}

// ImageUsage flags
type ImageUsage uint32

// Image usage bits
const (
	ImageUsageSampled                ImageUsage = 0x04
	ImageUsageColorAttachment        ImageUsage = 0x10
	ImageUsageDepthStencilAttachment ImageUsage = 0x20
)

// ImageAspect flags
type ImageAspect uint32

// Image aspect bits
const (
	AspectColor ImageAspect = 1 << iota
	AspectDepth
	AspectStencil
)

// ImageLayout of an image in memory.
type ImageLayout uint32

// Image layouts used by the render pass
const (
	LayoutUndefined                     ImageLayout = 0
	LayoutColorAttachmentOptimal        ImageLayout = 2
	LayoutDepthStencilAttachmentOptimal ImageLayout = 3
	LayoutShaderReadOnlyOptimal         ImageLayout = 5
	LayoutPresentSrc                    ImageLayout = 1000001002
)

// LoadOp of an attachment at the start of a render pass.
type LoadOp uint32

// Load operations
const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

// StoreOp of an attachment at the end of a render pass.
type StoreOp uint32

// Store operations
const (
	StoreOpStore StoreOp = iota
	StoreOpDontCare
)

// PipelineStage flags
type PipelineStage uint32

// Pipeline stage bits
const (
	StageFragmentShader        PipelineStage = 0x080
	StageColorAttachmentOutput PipelineStage = 0x400
)

// Access flags
type Access uint32

// Access bits
const (
	AccessShaderRead           Access = 0x020
	AccessColorAttachmentWrite Access = 0x100
)

// SubpassExternal refers to commands outside the render pass.
const SubpassExternal = ^uint32(0)
