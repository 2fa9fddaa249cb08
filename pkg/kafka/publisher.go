package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Astemirdum/hotel-service/pkg/circuit_breaker"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type EventType string

const (
	ReservationCreated EventType = "reservation.created"
	ReservationUpdated EventType = "reservation.updated"
	ReservationDeleted EventType = "reservation.deleted"
)

type ReservationEvent struct {
	EventID       string    `json:"eventId"`
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservationId"`
	RoomID        int64     `json:"roomId"`
	GuestUserID   int64     `json:"guestUserId"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	Status        string    `json:"status"`
	TotalPrice    string    `json:"totalPrice"`
	ActorID       int64     `json:"actorId"`
	Timestamp     time.Time `json:"timestamp"`
}

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

func NewPublisher(producer sarama.SyncProducer, topic string, cb circuit_breaker.CircuitBreaker) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		cb:       cb,
	}
}

// Publish sends the event keyed by room so events of one room stay ordered within a partition.
func (p *Publisher) Publish(_ context.Context, event ReservationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.RoomID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
