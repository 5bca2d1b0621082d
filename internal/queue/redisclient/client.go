package redisclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const auditQueueKey = "vaultdeck:audit:v1"

// ErrEmpty means a blocking pop timed out with nothing queued.
var ErrEmpty = errors.New("queue empty")

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Enqueue pushes one audit payload onto the shared list.
func (c *Client) Enqueue(ctx context.Context, payload []byte) error {
	return c.redisdb.LPush(ctx, auditQueueKey, payload).Err()
}

// Dequeue blocks up to timeout for the next payload. Pop from the right so
// the list behaves FIFO against Enqueue's LPUSH.
func (c *Client) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := c.redisdb.BRPop(ctx, timeout, auditQueueKey).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, err
	}

	// BRPOP returns [key, value]
	if len(res) != 2 {
		return nil, ErrEmpty
	}

	return []byte(res[1]), nil
}

// QueueDepth reports how many payloads are waiting; used by worker readiness.
func (c *Client) QueueDepth(ctx context.Context) (int64, error) {
	return c.redisdb.LLen(ctx, auditQueueKey).Result()
}
