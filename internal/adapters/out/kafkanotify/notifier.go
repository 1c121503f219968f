// Package kafkanotify publishes offers to a Kafka topic for a downstream
// push gateway. Messages are keyed by driver id so one driver's offers stay
// ordered within a partition.
package kafkanotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
)

const DefaultTopic = "dispatch.order-offers"

// OfferMessage is the value written for every offer.
type OfferMessage struct {
	DriverID    string                `json:"driver_id"`
	DeviceToken string                `json:"device_token,omitempty"`
	Offer       services.OfferPayload `json:"offer"`
	SentAt      time.Time             `json:"sent_at"`
}

// Notifier implements ports.Notifier over a sarama.SyncProducer.
type Notifier struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
	logger   *slog.Logger
}

func NewNotifier(producer sarama.SyncProducer, topic string, logger *slog.Logger) (*Notifier, error) {
	var errList []error
	if producer == nil {
		errList = append(errList, errs.NewValueIsRequiredError("kafka producer"))
	}
	if logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	return &Notifier{
		producer: producer,
		topic:    topic,
		now:      time.Now,
		logger:   logger.With("component", "kafkanotify"),
	}, nil
}

// NewSyncProducer builds a producer that waits for all in-sync replicas.
// timeout bounds dialing, socket reads and writes, metadata refreshes and the
// broker's ack wait; zero keeps the sarama defaults.
func NewSyncProducer(brokers []string, timeout time.Duration) (sarama.SyncProducer, error) {
	cfg, err := newProducerConfig(brokers, timeout)
	if err != nil {
		return nil, err
	}
	return sarama.NewSyncProducer(brokers, cfg)
}

func newProducerConfig(brokers []string, timeout time.Duration) (*sarama.Config, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("kafka brokers")
	}
	if timeout < 0 {
		return nil, errs.NewValueIsOutOfRangeError("kafka timeout", timeout, 0, "unbounded")
	}
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	if timeout > 0 {
		cfg.Net.DialTimeout = timeout
		cfg.Net.ReadTimeout = timeout
		cfg.Net.WriteTimeout = timeout
		cfg.Metadata.Timeout = timeout
		cfg.Producer.Timeout = timeout
	}
	return cfg, nil
}

// Notify blocks until the broker acknowledges the message or ctx is done.
// A send abandoned on ctx keeps running in the producer until its own
// timeouts expire; its outcome is only logged.
func (n *Notifier) Notify(ctx context.Context, d *driver.Driver, payload services.OfferPayload) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(OfferMessage{
		DriverID:    d.ID().String(),
		DeviceToken: d.DeviceToken(),
		Offer:       payload,
		SentAt:      n.now().UTC(),
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(d.ID().String()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte("order_offer")},
		},
	}

	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := n.producer.SendMessage(msg)
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("publishing offer for order %s: %w", payload.ID, res.err)
		}
		n.logger.DebugContext(ctx, "offer published",
			"order_id", payload.ID,
			"driver_id", d.ID().String(),
			"partition", res.partition,
			"offset", res.offset,
		)
		return nil
	case <-ctx.Done():
		go n.logLateResult(payload.ID, d.ID().String(), done)
		return fmt.Errorf("publishing offer for order %s: %w", payload.ID, ctx.Err())
	}
}

type sendResult struct {
	partition int32
	offset    int64
	err       error
}

func (n *Notifier) logLateResult(orderID, driverID string, done <-chan sendResult) {
	res := <-done
	if res.err != nil {
		n.logger.Warn("abandoned offer publish failed", "order_id", orderID, "driver_id", driverID, "error", res.err)
		return
	}
	n.logger.Info("abandoned offer publish completed late", "order_id", orderID, "driver_id", driverID, "partition", res.partition, "offset", res.offset)
}

func (n *Notifier) Close() error {
	return n.producer.Close()
}
