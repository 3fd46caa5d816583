// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !linux && !freebsd && !darwin

package vkr

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// loadLibrary lets the binding find the loader itself. The entry point
// stays hidden from us, so the instance version cannot be probed.
func loadLibrary() (unsafe.Pointer, error) {
	return nil, vk.SetDefaultGetInstanceProcAddr()
}
