// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build linux || freebsd || darwin

package vkr

// #cgo LDFLAGS: -ldl
// #include <stdlib.h>
// #include <dlfcn.h>
import "C"
import (
	"runtime"
	"unsafe"

	"github.com/palantir/stacktrace"
)

func libraryName() string {
	if runtime.GOOS == "darwin" {
		return "libvulkan.1.dylib"
	}
	return "libvulkan.so.1"
}

// loadLibrary opens the system Vulkan loader and returns its
// vkGetInstanceProcAddr.
func loadLibrary() (unsafe.Pointer, error) {
	name := C.CString(libraryName())
	defer C.free(unsafe.Pointer(name))

	lib := C.dlopen(name, C.RTLD_NOW|C.RTLD_LOCAL)
	if lib == nil {
		return nil, stacktrace.NewError("opening %s: %s", libraryName(), C.GoString(C.dlerror()))
	}

	symbol := C.CString("vkGetInstanceProcAddr")
	defer C.free(unsafe.Pointer(symbol))

	proc := C.dlsym(lib, symbol)
	if proc == nil {
		return nil, stacktrace.NewError("%s exports no vkGetInstanceProcAddr", libraryName())
	}
	return proc, nil
}
