package probes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/loyalnest/service-bootstrap/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Kafka)(nil)

var errNoBrokers = errors.New("no kafka brokers configured")

// KafkaAdmin is the part of *kadm.Client the kafka probe needs.
type KafkaAdmin interface {
	ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
	Close()
}

// KafkaDialer opens a new admin session. Callers own the returned session
// and must Close it.
type KafkaDialer func(ctx context.Context) (KafkaAdmin, error)

// NewKafkaDialer returns a dialer that creates a franz-go client against
// brokers for every session.
func NewKafkaDialer(brokers []string, clientID string, dialTimeout time.Duration) KafkaDialer {
	return func(context.Context) (KafkaAdmin, error) {
		if len(brokers) == 0 {
			return nil, errNoBrokers
		}
		opts := []kgo.Opt{
			kgo.SeedBrokers(brokers...),
			kgo.RequestRetries(0),
		}
		if clientID != "" {
			opts = append(opts, kgo.ClientID(clientID))
		}
		if dialTimeout > 0 {
			opts = append(opts, kgo.DialTimeout(dialTimeout))
		}
		cl, err := kgo.NewClient(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating kafka client: %w", err)
		}
		return kadm.NewClient(cl), nil
	}
}

// Kafka checks the message broker by opening an admin session, listing
// topics as proof of a working connection, and closing the session. The
// session is closed on every path.
type Kafka struct {
	dial KafkaDialer
}

// NewKafka returns a kafka probe that opens sessions with dial.
func NewKafka(dial KafkaDialer) *Kafka {
	return &Kafka{dial: dial}
}

// Name returns "kafka".
func (k *Kafka) Name() string { return NameKafka }

// HealthCheck opens an admin session, lists topics and disconnects.
func (k *Kafka) HealthCheck(ctx context.Context) error {
	admin, err := k.dial(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer admin.Close()

	if _, err := admin.ListTopics(ctx); err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	return nil
}
