package sim

import (
	"context"
	"errors"
	"net"

	"github.com/banshee-data/openlaunch/internal/metrics"
	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/shot"
)

// Dispatcher decouples the segmentation engine from simulator delivery: the
// engine enqueues completed shots and a single worker goroutine performs
// the network writes. Ordering between two shots' deliveries is therefore
// preserved here but not required by the protocol; shots are independent
// events.
type Dispatcher struct {
	client *Client
	shots  chan *shot.Shot
}

// NewDispatcher creates a dispatcher with the given pending-shot queue
// size.
func NewDispatcher(client *Client, queueSize int) *Dispatcher {
	return &Dispatcher{
		client: client,
		shots:  make(chan *shot.Shot, queueSize),
	}
}

// Enqueue hands a shot to the delivery worker without blocking. When the
// queue is full the shot is dropped with a warning; segmentation must never
// wait on the network.
func (d *Dispatcher) Enqueue(s *shot.Shot) {
	select {
	case d.shots <- s:
	default:
		monitoring.Logf("sim: delivery queue full, dropping shot %s", s.ID)
		metrics.RecordSinkQueueDrop()
	}
}

// Run delivers queued shots until ctx is cancelled. Delivery failures are
// logged and never propagated; a simulator that is not running is an
// expected condition, not a fault.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-d.shots:
			monitoring.Debugf("sim: delivering shot %s (ball %.1f mph)", s.ID, s.BallSpeedMPH)
			if err := d.client.SendShot(s); err != nil {
				metrics.RecordSinkFailure()
				var netErr net.Error
				if errors.Is(err, ErrNotConnected) || errors.As(err, &netErr) {
					monitoring.Debugf("sim: could not deliver shot %s (simulator may not be running): %v", s.ID, err)
				} else {
					monitoring.Logf("sim: failed to deliver shot %s: %v", s.ID, err)
				}
				continue
			}
			metrics.RecordSinkDelivery()
			monitoring.Logf("sim: shot %s delivered", s.ID)
		}
	}
}
