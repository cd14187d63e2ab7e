package events

import (
	"context"
	"fmt"

	"courier-booking/logger"
)

// LogPublisher and LogNotifier stand in when no broker is configured
type LogPublisher struct{}

func (LogPublisher) PublishShipmentEvent(ctx context.Context, event ShipmentEvent) error {
	logger.Info(fmt.Sprintf("Shipment event %s: %s is now %s", event.Type, event.ShipmentCode, event.Stage))
	return nil
}

func (LogPublisher) Close() error { return nil }

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger.Info(fmt.Sprintf("Notification %s for %s to %s", n.Kind, n.ShipmentCode, n.Recipient))
	return nil
}

func (LogNotifier) Close() error { return nil }
