// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

/*
#include <stddef.h>
#include <stdint.h>

typedef void (*voidFunction)(void);
typedef voidFunction (*getInstanceProcAddr)(void *instance, const char *name);
typedef int32_t (*enumerateInstanceVersion)(uint32_t *version);

// Returns 1 and fills version when the loader reports its version.
static int instanceVersion(void *procAddr, uint32_t *version) {
	if (procAddr == NULL) {
		return 0;
	}
	enumerateInstanceVersion fn = (enumerateInstanceVersion)
		((getInstanceProcAddr)procAddr)(NULL, "vkEnumerateInstanceVersion");
	if (fn == NULL) {
		return 0;
	}
	return fn(version) == 0;
}
*/
import "C"
import (
	"unsafe"

	"github.com/devblok/gpengine/gfx"
)

// probeInstanceVersion asks the loader for its instance version.
// Loaders older than 1.1 do not export the query.
func probeInstanceVersion(procAddr unsafe.Pointer) (gfx.Version, bool) {
	var v C.uint32_t
	if C.instanceVersion(procAddr, &v) == 0 {
		return 0, false
	}
	return gfx.Version(v), true
}
