package queue

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultKey = "orphan_queue"

// RedisQueue is a FIFO job list shared by the server and the worker.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) EnqueueDelete(ctx context.Context, url string) error {
	return q.Enqueue(ctx, NewDeleteJob(url))
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := job.Serialize()
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, q.key, raw).Err()
}

// Dequeue blocks up to timeout. It returns nil, nil when nothing arrived.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	val, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DeserializeJob(val[1])
}
