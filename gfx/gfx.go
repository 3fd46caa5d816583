// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines the driver-neutral vocabulary of the renderer: handles,
// formats, capability tables and the two boundaries the renderer is built
// against, the graphics Driver and the Window it presents into.
//
// Numeric values of the enumerations match their Vulkan counterparts, so a
// driver implementation can convert them with a plain cast.
package gfx

import "unsafe"

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Window describes the windowing collaborator. The renderer never
// subscribes to its events, it only asks what it needs to build a surface.
type Window interface {

	// InstanceExtensions returns the instance extensions required
	// to present into this window.
	InstanceExtensions() []string

	// DrawableSize returns the current size of the window in pixels.
	DrawableSize() (width, height uint32)

	// CreateSurface creates a presentation surface for the native
	// API instance given.
	CreateSurface(instance interface{}) (unsafe.Pointer, error)
}
