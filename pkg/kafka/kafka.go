package kafka

import (
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const DefaultReservationTopic = "reservations"

type Config struct {
	Addrs            []string `envconfig:"KAFKA_ADDRS"`
	ReservationTopic string   `envconfig:"KAFKA_RESERVATION_TOPIC" default:"reservations"`
}

func (cfg Config) Enabled() bool {
	return len(cfg.Addrs) > 0
}

func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 2
	defaultCfg.Producer.Timeout = 3 * time.Second
	defaultCfg.Net.DialTimeout = 3 * time.Second

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func CreateTopics(cfg Config) error {
	admin, err := sarama.NewClusterAdmin(cfg.Addrs, sarama.NewConfig())
	if err != nil {
		return errors.Wrap(err, "sarama.NewClusterAdmin")
	}
	defer admin.Close()

	err = admin.CreateTopic(cfg.ReservationTopic, &sarama.TopicDetail{
		NumPartitions:     3,
		ReplicationFactor: 1,
	}, false)
	var topicErr *sarama.TopicError
	if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
		return nil
	}
	return err
}
