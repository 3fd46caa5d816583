// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

const reportedFlags = vk.DebugReportErrorBit |
	vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit |
	vk.DebugReportInformationBit |
	vk.DebugReportDebugBit

// CreateDebugCallback implements gfx.Driver. Messages are logged at the
// level matching their severity.
func (d *Driver) CreateDebugCallback(instance gfx.Instance) (gfx.DebugCallback, error) {
	createInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(reportedFlags),
		PfnCallback: d.report,
	}

	var cb vk.DebugReportCallback
	if err := check("CreateDebugReportCallback", vk.CreateDebugReportCallback(vkInstance(instance), &createInfo, nil, &cb)); err != nil {
		return 0, err
	}
	return gfx.DebugCallback(handle(unsafe.Pointer(cb))), nil
}

// DestroyDebugCallback implements gfx.Driver.
func (d *Driver) DestroyDebugCallback(instance gfx.Instance, callback gfx.DebugCallback) {
	vk.DestroyDebugReportCallback(vkInstance(instance), vkDebugCallback(callback), nil)
}

func (d *Driver) report(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	entry := d.log.WithFields(log.Fields{
		"layer": pLayerPrefix,
		"code":  messageCode,
	})

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		entry.Error(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		entry.Warn(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		entry.WithField("performance", true).Warn(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		entry.Info(pMessage)
	default:
		entry.Debug(pMessage)
	}
	return vk.Bool32(vk.False)
}
