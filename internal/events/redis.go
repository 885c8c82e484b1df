package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const (
	DefaultChannel = "mesh:events"

	breakerMaxFailures uint32 = 5
	breakerTimeout            = 30 * time.Second
	breakerInterval           = 60 * time.Second
)

// RedisPublisher fans mesh events out over Redis pub/sub. Repeated publish
// failures open the breaker so routing does not wait on a dead broker.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
	breaker *gobreaker.CircuitBreaker[int64]
	logger  *slog.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	logger = logger.With("component", "events")

	cb := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:        "events:" + channel,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &RedisPublisher{
		redis:   client,
		channel: channel,
		breaker: cb,
		logger:  logger,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	receivers, err := p.breaker.Execute(func() (int64, error) {
		return p.redis.Publish(ctx, p.channel, data).Result()
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("published event",
		"type", ev.Type,
		"agent_id", ev.AgentID,
		"task_id", ev.TaskID,
		"receivers", receivers)
	return nil
}

func (p *RedisPublisher) State() gobreaker.State {
	return p.breaker.State()
}

// Subscribe delivers events from channel to handle until ctx is cancelled.
func Subscribe(ctx context.Context, client *redis.Client, channel string, logger *slog.Logger, handle func(Event)) error {
	if channel == "" {
		channel = DefaultChannel
	}

	pubsub := client.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive event: %w", err)
		}

		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Error("unmarshal event", "error", err, "channel", channel)
			continue
		}
		handle(ev)
	}
}
