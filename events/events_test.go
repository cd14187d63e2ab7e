package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"courier-booking/models/shipment"
	"courier-booking/models/user"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "SHAB12CD34EF" {
			return errors.New("message must be keyed by shipment code")
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got ShipmentEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.Stage != shipment.StageOutForDelivery || got.PreviousStage != shipment.StageInTransit {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "shipment-status")
	err := p.PublishShipmentEvent(context.Background(), ShipmentEvent{
		Type:          TypeShipmentStatusChanged,
		ShipmentCode:  "SHAB12CD34EF",
		Stage:         shipment.StageOutForDelivery,
		PreviousStage: shipment.StageInTransit,
		OccurredAt:    time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestKafkaPublisherFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "shipment-status")
	err := p.PublishShipmentEvent(context.Background(), ShipmentEvent{Type: TypeShipmentBooked, ShipmentCode: "SH1"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitNotifier(t *testing.T) {
	ch := &fakeChannel{}
	n, err := NewRabbitNotifierWithChannel(ch, "shipment-notifications")
	require.NoError(t, err)
	assert.Equal(t, []string{"shipment-notifications"}, ch.declared)

	s := shipment.Shipment{
		Code:        "SHAB12CD34EF",
		ServiceType: shipment.ServiceExpress,
		Receiver:    shipment.Party{Name: "Ravi", City: "Kolkata"},
		Total:       decimal.RequireFromString("135.70"),
	}
	first := "Asha"
	require.NoError(t, n.Notify(context.Background(), BookingConfirmation(s, user.User{Email: "asha@example.com", FirstName: &first})))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "shipment-notifications", ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "booking_confirmed", ch.published[0].Type)

	var got Notification
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, "asha@example.com", got.Recipient)
	assert.Contains(t, got.Body, "INR 135.70")
	assert.True(t, strings.HasPrefix(got.Body, "Hi Asha, "), got.Body)

	require.NoError(t, n.Close())
	assert.True(t, ch.closed)
}

func TestLogFallbacks(t *testing.T) {
	assert.NoError(t, LogPublisher{}.PublishShipmentEvent(context.Background(), ShipmentEvent{Type: TypeShipmentBooked}))
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), DeliveryConfirmation(shipment.Shipment{Code: "SH1"}, user.User{Email: "a@b.c"})))
}
