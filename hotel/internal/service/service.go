package service

import (
	"context"

	"github.com/Astemirdum/hotel-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=../repository/repository.go -destination=../repository/mocks/mock.go

// EventPublisher delivers reservation changes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

var (
	_ EventPublisher = (*kafka.Publisher)(nil)
	_ EventPublisher = kafka.NopPublisher{}
)
