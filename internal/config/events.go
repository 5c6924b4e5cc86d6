package config

import (
	"log/slog"
	"strings"

	"github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled          bool
	Publisher        string // kafka or mock
	KafkaBrokers     string
	PerformanceTopic string
}

func LoadEventConfig() EventConfig {
	return EventConfig{
		Enabled:          getEnvBool("EVENTS_ENABLED", true),
		Publisher:        getEnv("EVENTS_PUBLISHER", "kafka"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		PerformanceTopic: getEnv("PERFORMANCE_TOPIC", "performance-events"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.PerformanceTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.PerformanceTopic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
