// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window provides the SDL window the renderer presents into.
package window

import (
	"unsafe"

	"github.com/palantir/stacktrace"
	"github.com/veandco/go-sdl2/sdl"
)

// Init starts SDL video and events and loads the Vulkan library through it.
// Quit undoes it.
func Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return stacktrace.Propagate(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return stacktrace.Propagate(err, "sdl.VulkanLoadLibrary()")
	}
	return nil
}

// Quit unloads the Vulkan library and shuts SDL down.
func Quit() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}

// ProcAddr returns the vkGetInstanceProcAddr SDL loaded.
func ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// Window is a Vulkan capable SDL window.
type Window struct {
	window *sdl.Window
}

// New opens a centred window of the given size.
func New(title string, width, height uint32) (*Window, error) {
	return open(title, width, height, sdl.WINDOW_SHOWN)
}

// NewHidden creates a window that is never shown. It still yields
// a surface, which is enough to query presentation support.
func NewHidden(title string, width, height uint32) (*Window, error) {
	return open(title, width, height, sdl.WINDOW_HIDDEN)
}

func open(title string, width, height uint32, flags uint32) (*Window, error) {
	w, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		sdl.WINDOW_VULKAN|flags)
	if err != nil {
		return nil, stacktrace.Propagate(err, "sdl.CreateWindow()")
	}
	return &Window{window: w}, nil
}

// InstanceExtensions implements gfx.Window.
func (w *Window) InstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// DrawableSize implements gfx.Window.
func (w *Window) DrawableSize() (uint32, uint32) {
	width, height := w.window.VulkanGetDrawableSize()
	return uint32(width), uint32(height)
}

// CreateSurface implements gfx.Window.
func (w *Window) CreateSurface(instance interface{}) (unsafe.Pointer, error) {
	surface, err := w.window.VulkanCreateSurface(instance)
	if err != nil {
		return nil, stacktrace.Propagate(err, "sdl.VulkanCreateSurface()")
	}
	return surface, nil
}

// Closed drains pending events and reports whether the user asked
// to close the window.
func (w *Window) Closed() bool {
	closed := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				closed = true
			}
		case *sdl.QuitEvent:
			closed = true
		}
	}
	return closed
}

// Release implements gfx.Releasable.
func (w *Window) Release() {
	w.window.Destroy()
}
