// Package fcm pushes offers to driver devices through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"firebase.google.com/go/v4/messaging"
)

const messageType = "new_order"

var ErrNoDeviceToken = errors.New("driver has no device token")

// Sender is the part of *messaging.Client the notifier uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier implements ports.Notifier over FCM.
type Notifier struct {
	sender Sender
	logger *slog.Logger
}

func NewNotifier(sender Sender, logger *slog.Logger) (*Notifier, error) {
	var errList []error
	if sender == nil {
		errList = append(errList, errs.NewValueIsRequiredError("fcm sender"))
	}
	if logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return &Notifier{sender: sender, logger: logger.With("component", "fcm")}, nil
}

func (n *Notifier) Notify(ctx context.Context, d *driver.Driver, payload services.OfferPayload) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.DeviceToken() == "" {
		return fmt.Errorf("driver %s: %w", d.ID(), ErrNoDeviceToken)
	}

	msg, err := buildMessage(d.DeviceToken(), payload)
	if err != nil {
		return err
	}

	messageID, err := n.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending FCM for order %s: %w", payload.ID, err)
	}

	n.logger.DebugContext(ctx, "offer pushed",
		"order_id", payload.ID,
		"driver_id", d.ID().String(),
		"message_id", messageID,
	)
	return nil
}

// buildMessage flattens the payload into FCM data, which only carries
// strings; the nested locations travel as JSON documents.
func buildMessage(token string, p services.OfferPayload) (*messaging.Message, error) {
	pickup, err := json.Marshal(p.Pickup)
	if err != nil {
		return nil, err
	}
	dropoff, err := json.Marshal(p.Dropoff)
	if err != nil {
		return nil, err
	}

	msg := &messaging.Message{
		Token: token,
		Data: map[string]string{
			"type":             messageType,
			"id":               p.ID,
			"pickup":           string(pickup),
			"dropoff":          string(dropoff),
			"pickup_distance":  p.PickupDistance,
			"amount":           p.Amount,
			"total":            p.Total,
			"vendor_id":        p.VendorID,
			"is_parcel":        p.IsParcel,
			"package_type":     p.PackageType,
			"range":            p.Range,
			"notificationTime": strconv.Itoa(p.NotificationTime),
		},
		Notification: &messaging.Notification{
			Title: "New order request",
			Body:  fmt.Sprintf("Pickup %s km away: %s", p.PickupDistance, p.Pickup.Address),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if p.NotificationTime > 0 {
		ttl := time.Duration(p.NotificationTime) * time.Second
		msg.Android.TTL = &ttl
	}
	return msg, nil
}
