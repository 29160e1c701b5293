package probes_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"

	"github.com/loyalnest/service-bootstrap/internal/adapters/probes"
)

// --- Postgres ---

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPostgres_HealthCheck(t *testing.T) {
	t.Parallel()

	refused := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

	tests := []struct {
		name    string
		pingErr error
		wantErr bool
	}{
		{name: "healthy", pingErr: nil},
		{name: "refused", pingErr: refused, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := probes.NewPostgres(pingerFunc(func(context.Context) error { return tt.pingErr }))

			err := p.HealthCheck(context.Background())

			assert.Equal(t, probes.NamePostgres, p.Name())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.pingErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// --- Redis ---

type redisPingerFunc func(ctx context.Context) *redis.StatusCmd

func (f redisPingerFunc) Ping(ctx context.Context) *redis.StatusCmd { return f(ctx) }

func TestRedis_HealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		err     error
		wantErr string
	}{
		{name: "pong", reply: "PONG"},
		{name: "connection error", err: errors.New("connection refused"), wantErr: "connection refused"},
		{name: "unexpected reply", reply: "LOADING", wantErr: "unexpected reply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := probes.NewRedis(redisPingerFunc(func(context.Context) *redis.StatusCmd {
				return redis.NewStatusResult(tt.reply, tt.err)
			}))

			err := r.HealthCheck(context.Background())

			assert.Equal(t, probes.NameRedis, r.Name())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// --- Kafka ---

type fakeAdmin struct {
	list   func(ctx context.Context) error
	closed atomic.Int32
}

func (f *fakeAdmin) ListTopics(ctx context.Context, _ ...string) (kadm.TopicDetails, error) {
	if err := f.list(ctx); err != nil {
		return nil, err
	}
	return kadm.TopicDetails{}, nil
}

func (f *fakeAdmin) Close() { f.closed.Add(1) }

func dialerFor(admin *fakeAdmin) probes.KafkaDialer {
	return func(context.Context) (probes.KafkaAdmin, error) { return admin, nil }
}

func TestKafka_HealthCheck_Healthy(t *testing.T) {
	t.Parallel()

	admin := &fakeAdmin{list: func(context.Context) error { return nil }}
	k := probes.NewKafka(dialerFor(admin))

	require.NoError(t, k.HealthCheck(context.Background()))
	assert.Equal(t, probes.NameKafka, k.Name())
	assert.Equal(t, int32(1), admin.closed.Load(), "session must be closed after success")
}

func TestKafka_HealthCheck_ListError(t *testing.T) {
	t.Parallel()

	refused := errors.New("connect ECONNREFUSED 127.0.0.1:9092")
	admin := &fakeAdmin{list: func(context.Context) error { return refused }}
	k := probes.NewKafka(dialerFor(admin))

	err := k.HealthCheck(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, refused)
	assert.Equal(t, int32(1), admin.closed.Load(), "session must be closed after failure")
}

func TestKafka_HealthCheck_Timeout(t *testing.T) {
	t.Parallel()

	admin := &fakeAdmin{list: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	k := probes.NewKafka(dialerFor(admin))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := k.HealthCheck(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), admin.closed.Load(), "session must be closed after timeout")
}

func TestKafka_HealthCheck_DialError(t *testing.T) {
	t.Parallel()

	dialErr := errors.New("no route to host")
	k := probes.NewKafka(func(context.Context) (probes.KafkaAdmin, error) { return nil, dialErr })

	err := k.HealthCheck(context.Background())

	assert.ErrorIs(t, err, dialErr)
}

func TestNewKafkaDialer(t *testing.T) {
	t.Parallel()

	t.Run("no brokers", func(t *testing.T) {
		t.Parallel()

		_, err := probes.NewKafkaDialer(nil, "health-check", time.Second)(context.Background())
		assert.Error(t, err)
	})

	t.Run("builds a session without connecting", func(t *testing.T) {
		t.Parallel()

		admin, err := probes.NewKafkaDialer([]string{"127.0.0.1:1"}, "health-check", time.Second)(context.Background())
		require.NoError(t, err)
		require.NotNil(t, admin)
		admin.Close()
	})
}
