// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	log "github.com/sirupsen/logrus"
)

// LogicalDevice is the opened device and the queue of every role.
type LogicalDevice struct {
	Handle   gfx.Device
	Families QueueFamilies

	Graphics gfx.Queue
	Compute  gfx.Queue
	Present  gfx.Queue

	// Transfer is the null queue when Families.HasTransfer is unset.
	Transfer gfx.Queue
}

// QueueRequests builds one request per distinct family, each for
// a single queue at full priority.
func QueueRequests(q QueueFamilies) []gfx.QueueRequest {
	families := q.Distinct()
	requests := make([]gfx.QueueRequest, 0, len(families))
	for _, f := range families {
		requests = append(requests, gfx.QueueRequest{
			Family:     f,
			Priorities: []float32{1.0},
		})
	}
	return requests
}

func createLogicalDevice(drv gfx.Driver, pd *PhysicalDevice, families QueueFamilies, lc *lifecycle, logger log.FieldLogger) (*LogicalDevice, error) {
	info := gfx.DeviceInfo{
		Queues:     QueueRequests(families),
		Extensions: []string{SwapchainExtension},
	}

	device, err := drv.CreateDevice(pd.Handle, info)
	if err != nil {
		return nil, driverFailure(err, "creating logical device on %s", pd.Name())
	}
	lc.acquired("device", func() { drv.DestroyDevice(device) })

	ld := &LogicalDevice{
		Handle:   device,
		Families: families,
		Graphics: drv.DeviceQueue(device, families.Graphics, 0),
		Compute:  drv.DeviceQueue(device, families.Compute, 0),
		Present:  drv.DeviceQueue(device, families.Present, 0),
	}
	if families.HasTransfer {
		ld.Transfer = drv.DeviceQueue(device, families.Transfer, 0)
	}

	logger.WithField("queue_requests", len(info.Queues)).Info("logical device created")
	return ld, nil
}
