// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// PhysicalDevice is a selected graphics processor and the capability facts
// the rest of the pipeline negotiates against. It is not modified after
// selection.
type PhysicalDevice struct {
	Handle         gfx.PhysicalDevice
	Properties     gfx.PhysicalDeviceProperties
	QueueFamilies  []gfx.QueueFamily
	SurfaceFormats []gfx.SurfaceFormat
	PresentModes   []gfx.PresentMode
	Memory         gfx.MemoryProperties

	depthFormats map[gfx.Format]gfx.FormatProperties
}

// Name returns the human readable device name.
func (p *PhysicalDevice) Name() string {
	return p.Properties.Name
}

// FormatProperties returns the cached support of a depth format.
func (p *PhysicalDevice) FormatProperties(f gfx.Format) gfx.FormatProperties {
	return p.depthFormats[f]
}

// DeviceReport summarises one physical device and whether it can drive
// the renderer.
type DeviceReport struct {
	Name          string         `json:"name"`
	Type          gfx.DeviceType `json:"type"`
	APIVersion    string         `json:"apiVersion"`
	DriverVersion uint32         `json:"driverVersion"`
	VendorID      uint32         `json:"vendorId"`
	DeviceID      uint32         `json:"deviceId"`
	Memory        uint64         `json:"memory"`
	QueueFamilies int            `json:"queueFamilies"`
	Graphics      bool           `json:"graphics"`
	Compute       bool           `json:"compute"`
	Presentation  bool           `json:"presentation"`
	Qualifies     bool           `json:"qualifies"`
}

type capabilities struct {
	graphics, compute, present bool
}

func (c capabilities) qualifies() bool {
	return c.graphics && c.compute && c.present
}

// scanCapabilities checks every queue family of a device for graphics,
// compute and presentation support.
func scanCapabilities(drv gfx.Driver, pd gfx.PhysicalDevice, families []gfx.QueueFamily, surface gfx.Surface) (capabilities, error) {
	var caps capabilities
	for i, f := range families {
		caps.graphics = caps.graphics || f.Flags.Has(gfx.QueueGraphics)
		caps.compute = caps.compute || f.Flags.Has(gfx.QueueCompute)
		if !caps.present {
			ok, err := drv.SurfaceSupport(pd, uint32(i), surface)
			if err != nil {
				return caps, driverFailure(err, "querying surface support of family %d", i)
			}
			caps.present = ok
		}
	}
	return caps, nil
}

// SelectPhysicalDevice picks the device to render with. Only devices with
// graphics, compute and presentation support qualify; the first discrete
// one wins, otherwise the first qualifying one in enumeration order.
func SelectPhysicalDevice(drv gfx.Driver, instance gfx.Instance, surface gfx.Surface, logger log.FieldLogger) (*PhysicalDevice, error) {
	devices, err := drv.PhysicalDevices(instance)
	if err != nil {
		return nil, driverFailure(err, "enumerating physical devices")
	}
	if len(devices) == 0 {
		return nil, precondition("runtime reports no physical devices")
	}

	var (
		fallback      gfx.PhysicalDevice
		fallbackFound bool
		chosen        gfx.PhysicalDevice
		found         bool
	)
	for _, pd := range devices {
		props := drv.PhysicalDeviceProperties(pd)
		caps, err := scanCapabilities(drv, pd, drv.QueueFamilies(pd), surface)
		if err != nil {
			return nil, err
		}

		logger.WithFields(log.Fields{
			"device":       props.Name,
			"type":         props.Type,
			"graphics":     caps.graphics,
			"compute":      caps.compute,
			"presentation": caps.present,
		}).Debug("physical device")

		if !caps.qualifies() {
			continue
		}
		if props.Type == gfx.DeviceTypeDiscreteGPU {
			chosen, found = pd, true
			break
		}
		if !fallbackFound {
			fallback, fallbackFound = pd, true
		}
	}

	if !found {
		if !fallbackFound {
			return nil, unsupported("none of %d devices supports graphics, compute and presentation", len(devices))
		}
		chosen = fallback
	}

	selected, err := describe(drv, chosen, surface)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"device": selected.Name(),
		"type":   selected.Properties.Type,
	}).Info("physical device selected")
	return selected, nil
}

// describe caches the capability facts of the selected device.
func describe(drv gfx.Driver, pd gfx.PhysicalDevice, surface gfx.Surface) (*PhysicalDevice, error) {
	formats, err := drv.SurfaceFormats(pd, surface)
	if err != nil {
		return nil, driverFailure(err, "querying surface formats")
	}
	modes, err := drv.PresentModes(pd, surface)
	if err != nil {
		return nil, driverFailure(err, "querying present modes")
	}

	depth := make(map[gfx.Format]gfx.FormatProperties, len(DepthFormats))
	for _, f := range DepthFormats {
		depth[f] = drv.FormatProperties(pd, f)
	}

	return &PhysicalDevice{
		Handle:         pd,
		Properties:     drv.PhysicalDeviceProperties(pd),
		QueueFamilies:  drv.QueueFamilies(pd),
		SurfaceFormats: formats,
		PresentModes:   modes,
		Memory:         drv.MemoryProperties(pd),
		depthFormats:   depth,
	}, nil
}

// Survey reports on every physical device visible to the instance.
func Survey(drv gfx.Driver, instance gfx.Instance, surface gfx.Surface) ([]DeviceReport, error) {
	devices, err := drv.PhysicalDevices(instance)
	if err != nil {
		return nil, driverFailure(err, "enumerating physical devices")
	}

	reports := make([]DeviceReport, 0, len(devices))
	for _, pd := range devices {
		props := drv.PhysicalDeviceProperties(pd)
		families := drv.QueueFamilies(pd)
		caps, err := scanCapabilities(drv, pd, families, surface)
		if err != nil {
			return nil, err
		}

		var memory uint64
		for _, h := range drv.MemoryProperties(pd).Heaps {
			memory += h.Size
		}

		reports = append(reports, DeviceReport{
			Name:          props.Name,
			Type:          props.Type,
			APIVersion:    props.APIVersion.String(),
			DriverVersion: props.DriverVersion,
			VendorID:      props.VendorID,
			DeviceID:      props.DeviceID,
			Memory:        memory,
			QueueFamilies: len(families),
			Graphics:      caps.graphics,
			Compute:       caps.compute,
			Presentation:  caps.present,
			Qualifies:     caps.qualifies(),
		})
	}
	return reports, nil
}

// Inspect creates a short-lived graphics context for win, surveys every
// physical device against its surface and releases the context again.
func Inspect(drv gfx.Driver, win gfx.Window, cfg RendererConfiguration, logger log.FieldLogger) ([]DeviceReport, error) {
	lc := &lifecycle{log: logger.WithField("stage", "lifecycle")}
	defer lc.unwind()

	ctx, surface, err := createContext(drv, win, cfg, lc, logger.WithField("stage", "context"))
	if err != nil {
		return nil, err
	}
	return Survey(drv, ctx.Instance, surface)
}
