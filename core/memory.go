// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
)

// FindMemoryType returns the first memory type allowed by typeBits whose
// properties include every flag in want.
func FindMemoryType(props gfx.MemoryProperties, typeBits uint32, want gfx.MemoryProperty) (uint32, bool) {
	for idx, t := range props.Types {
		if idx >= 32 {
			break
		}
		if typeBits&(1<<uint(idx)) != 0 && t.Properties&want == want {
			return uint32(idx), true
		}
	}
	return 0, false
}

// ResolveMemoryType prefers device-local memory and falls back to any
// type the resource accepts.
func ResolveMemoryType(props gfx.MemoryProperties, typeBits uint32) (uint32, error) {
	if idx, ok := FindMemoryType(props, typeBits, gfx.MemoryDeviceLocal); ok {
		return idx, nil
	}
	if idx, ok := FindMemoryType(props, typeBits, 0); ok {
		return idx, nil
	}
	return 0, unsupported("no memory type matches type bits %#x", typeBits)
}
