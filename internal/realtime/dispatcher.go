package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Delivery is the outcome of one send attempt.
type Delivery struct {
	ConnectionID string
	Err          error
}

// DeliveryReport aggregates a broadcast. A partially failed broadcast
// is still a successful broadcast; failed peers are pruned, not retried.
type DeliveryReport struct {
	Attempted  int
	Delivered  int
	Pruned     int
	Deliveries []Delivery
}

// Dispatcher pushes events to every registered connection. Delivery is
// at-most-once and best-effort: a missed update is corrected by the
// client re-querying on reconnect, never by a re-send.
type Dispatcher struct {
	registry Registry
	pusher   Pusher
	log      *slog.Logger
	now      func() time.Time
}

func NewDispatcher(registry Registry, pusher Pusher, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		pusher:   pusher,
		log:      log,
		now:      time.Now,
	}
}

// Notify broadcasts a document status event to all connections.
func (d *Dispatcher) Notify(ctx context.Context, event DocumentUpdate) (*DeliveryReport, error) {
	if event.Timestamp == "" {
		event.Timestamp = timestamp(d.now())
	}

	msg := documentUpdateMessage{
		Type:           TypeDocumentUpdate,
		DocumentUpdate: event,
	}
	return d.Broadcast(ctx, msg, "")
}

// Broadcast sends one message to every registered connection,
// optionally filtered by user ID. All attempts run concurrently; the
// report is assembled once every attempt has settled. Peer-gone
// failures unregister the connection inline so the next broadcast
// skips it.
func (d *Dispatcher) Broadcast(ctx context.Context, message any, userID string) (*DeliveryReport, error) {
	conns, err := d.registry.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var targets []Connection
	for _, conn := range conns {
		if userID != "" && conn.UserID != userID {
			continue
		}
		targets = append(targets, conn)
	}

	report := &DeliveryReport{
		Attempted:  len(targets),
		Deliveries: make([]Delivery, len(targets)),
	}

	var wg sync.WaitGroup
	for i, conn := range targets {
		wg.Add(1)
		go func(i int, conn Connection) {
			defer wg.Done()

			err := d.pusher.Send(ctx, conn.ConnectionID, message)
			report.Deliveries[i] = Delivery{ConnectionID: conn.ConnectionID, Err: err}

			if errors.Is(err, ErrConnectionGone) {
				if err := d.registry.Unregister(ctx, conn.ConnectionID); err != nil {
					d.log.WarnContext(ctx, "failed to prune stale connection",
						"connection_id", conn.ConnectionID,
						"error", err,
					)
				}
			}
		}(i, conn)
	}
	wg.Wait()

	for _, del := range report.Deliveries {
		switch {
		case del.Err == nil:
			report.Delivered++
		case errors.Is(del.Err, ErrConnectionGone):
			report.Pruned++
		}
	}

	d.log.InfoContext(ctx, "broadcast settled",
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"pruned", report.Pruned,
	)

	return report, nil
}
