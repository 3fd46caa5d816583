// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// QueueFamilies is the family index assigned to each queue role.
type QueueFamilies struct {
	Graphics uint32
	Compute  uint32
	Present  uint32

	// Transfer is meaningful only when HasTransfer is set.
	Transfer    uint32
	HasTransfer bool

	// DedicatedCompute and DedicatedTransfer report whether the role got
	// a family of its own rather than sharing one with graphics.
	DedicatedCompute  bool
	DedicatedTransfer bool
}

// Distinct returns each assigned family index once, in role order
// graphics, compute, transfer, present.
func (q QueueFamilies) Distinct() []uint32 {
	families := []uint32{q.Graphics, q.Compute}
	if q.HasTransfer {
		families = append(families, q.Transfer)
	}
	families = append(families, q.Present)

	var distinct []uint32
	seen := make(map[uint32]bool, len(families))
	for _, f := range families {
		if !seen[f] {
			seen[f] = true
			distinct = append(distinct, f)
		}
	}
	return distinct
}

// ResolveQueueFamilies assigns a family to every queue role.
// supportsPresent reports whether a family can present to the surface.
func ResolveQueueFamilies(families []gfx.QueueFamily, supportsPresent func(family uint32) (bool, error), logger log.FieldLogger) (QueueFamilies, error) {
	var q QueueFamilies

	graphics, ok := graphicsFamily(families)
	if !ok {
		return q, unsupported("no queue family supports graphics")
	}
	q.Graphics = graphics

	compute, dedicated, ok := computeFamily(families)
	if !ok {
		return q, unsupported("no queue family supports compute")
	}
	q.Compute, q.DedicatedCompute = compute, dedicated

	q.Transfer, q.DedicatedTransfer, q.HasTransfer = transferFamily(families)
	switch {
	case !q.HasTransfer:
		logger.Warn("no queue family advertises transfer, transfer fast path disabled")
	case !q.DedicatedTransfer:
		logger.WithField("family", q.Transfer).Warn("no dedicated transfer queue family, transfer fast path disabled")
	}

	present, err := presentFamily(len(families), graphics, supportsPresent)
	if err != nil {
		return q, err
	}
	q.Present = present

	logger.WithFields(log.Fields{
		"graphics": q.Graphics,
		"compute":  q.Compute,
		"transfer": q.Transfer,
		"present":  q.Present,
	}).Debug("queue families resolved")
	return q, nil
}

func graphicsFamily(families []gfx.QueueFamily) (uint32, bool) {
	for i, f := range families {
		if f.Flags.Has(gfx.QueueGraphics) {
			return uint32(i), true
		}
	}
	return 0, false
}

// computeFamily prefers a family without graphics support.
func computeFamily(families []gfx.QueueFamily) (idx uint32, dedicated, ok bool) {
	for i, f := range families {
		if !f.Flags.Has(gfx.QueueCompute) {
			continue
		}
		if !f.Flags.Has(gfx.QueueGraphics) {
			return uint32(i), true, true
		}
		if !ok {
			idx, ok = uint32(i), true
		}
	}
	return idx, false, ok
}

// transferFamily prefers a family with neither graphics nor compute support.
func transferFamily(families []gfx.QueueFamily) (idx uint32, dedicated, ok bool) {
	for i, f := range families {
		if !f.Flags.Has(gfx.QueueTransfer) {
			continue
		}
		if !f.Flags.Has(gfx.QueueGraphics) && !f.Flags.Has(gfx.QueueCompute) {
			return uint32(i), true, true
		}
		if !ok {
			idx, ok = uint32(i), true
		}
	}
	return idx, false, ok
}

// presentFamily tries the graphics family first, then every other family.
func presentFamily(count int, graphics uint32, supportsPresent func(uint32) (bool, error)) (uint32, error) {
	ok, err := supportsPresent(graphics)
	if err != nil {
		return 0, driverFailure(err, "querying surface support of family %d", graphics)
	}
	if ok {
		return graphics, nil
	}

	for i := uint32(0); i < uint32(count); i++ {
		if i == graphics {
			continue
		}
		ok, err := supportsPresent(i)
		if err != nil {
			return 0, driverFailure(err, "querying surface support of family %d", i)
		}
		if ok {
			return i, nil
		}
	}
	return 0, unsupported("no queue family can present to the surface")
}
