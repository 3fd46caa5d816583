// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements gfx.Driver on top of the Vulkan API.
package vkr

import (
	"unsafe"

	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Driver calls into the Vulkan loader. It keeps no state besides the
// loader entry point and the log driver diagnostics are routed into.
type Driver struct {
	procAddr unsafe.Pointer
	log      log.FieldLogger
}

var _ gfx.Driver = (*Driver)(nil)

// New returns a driver that resolves Vulkan through procAddr, the
// vkGetInstanceProcAddr a window system hands out. When procAddr is nil
// the system Vulkan library is opened instead.
func New(procAddr unsafe.Pointer, logger log.FieldLogger) *Driver {
	return &Driver{
		procAddr: procAddr,
		log:      logger,
	}
}

// Load implements gfx.Driver.
func (d *Driver) Load() error {
	if d.procAddr == nil {
		p, err := loadLibrary()
		if err != nil {
			return err
		}
		d.procAddr = p
	}
	if d.procAddr != nil {
		vk.SetGetInstanceProcAddr(d.procAddr)
	}
	if err := vk.Init(); err != nil {
		return err
	}
	return nil
}

// InstanceVersion implements gfx.Driver.
func (d *Driver) InstanceVersion() (gfx.Version, bool) {
	return probeInstanceVersion(d.procAddr)
}

// InstanceLayers implements gfx.Driver.
func (d *Driver) InstanceLayers() ([]string, error) {
	var count uint32
	if err := check("EnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := check("EnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}

	layers := make([]string, 0, count)
	for _, p := range props[:count] {
		p.Deref()
		layers = append(layers, vk.ToString(p.LayerName[:]))
	}
	return layers, nil
}

// CreateInstance implements gfx.Driver.
func (d *Driver) CreateInstance(info gfx.InstanceInfo) (gfx.Instance, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   info.ApplicationName + "\x00",
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        info.EngineName + "\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         uint32(info.APIVersion),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}

	var instance vk.Instance
	if err := check("CreateInstance", vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return 0, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return 0, err
	}
	return gfx.Instance(handle(unsafe.Pointer(instance))), nil
}

// DestroyInstance implements gfx.Driver.
func (d *Driver) DestroyInstance(instance gfx.Instance) {
	vk.DestroyInstance(vkInstance(instance), nil)
}

// CreateSurface implements gfx.Driver.
func (d *Driver) CreateSurface(instance gfx.Instance, window gfx.Window) (gfx.Surface, error) {
	p, err := window.CreateSurface(vkInstance(instance))
	if err != nil {
		return 0, err
	}
	return gfx.Surface(handle(p)), nil
}

// DestroySurface implements gfx.Driver.
func (d *Driver) DestroySurface(instance gfx.Instance, surface gfx.Surface) {
	vk.DestroySurface(vkInstance(instance), vkSurface(surface), nil)
}
