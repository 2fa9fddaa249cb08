package app

import (
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/service"
	"github.com/Astemirdum/hotel-service/pkg/circuit_breaker"
	"github.com/Astemirdum/hotel-service/pkg/kafka"
	"go.uber.org/zap"
)

const (
	cbRecordLength     = 20
	cbTimeout          = 10 * time.Second
	cbPercentile       = 0.5
	cbRecoveryRequests = 3
)

// newEventPublisher falls back to dropping events when kafka is not configured or unreachable at startup.
func newEventPublisher(cfg kafka.Config, log *zap.Logger) (service.EventPublisher, func()) {
	if !cfg.Enabled() {
		log.Info("kafka not configured, reservation events are dropped")
		return kafka.NopPublisher{}, func() {}
	}
	if err := kafka.CreateTopics(cfg); err != nil {
		log.Warn("kafka.CreateTopics", zap.Error(err))
	}
	producer, err := kafka.NewSyncProducer(cfg)
	if err != nil {
		log.Error("kafka.NewSyncProducer", zap.Error(err))
		return kafka.NopPublisher{}, func() {}
	}
	cb := circuit_breaker.New(cbRecordLength, cbTimeout, cbPercentile, cbRecoveryRequests)
	return kafka.NewPublisher(producer, cfg.ReservationTopic, cb), func() {
		if err := producer.Close(); err != nil {
			log.Warn("kafka producer close", zap.Error(err))
		}
	}
}
