package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisJobsKey    = "petpalace:queue:jobs"
	redisDelayedKey = "petpalace:queue:delayed"
)

// RedisDriver is the durable backend. Immediate jobs go through LPUSH/BRPOP
// on a list; delayed jobs wait in a sorted set scored by their run-at time
// and are promoted by a background ticker.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver wraps the shared Redis client and starts the delayed-job
// promoter. The promoter stops when ctx is cancelled.
func NewRedisDriver(ctx context.Context, rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb}
	go d.promote(ctx)
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisJobsKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to 5s waiting for a job. A nil, nil return means the wait
// timed out with nothing ready.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, 5*time.Second, redisJobsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

// PushDelayed parks the payload in the sorted set until its run-at time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	err := d.rdb.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

func (d *RedisDriver) promote(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := strconv.FormatInt(time.Now().Unix(), 10)
		due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: now,
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.rdb.Pipeline()
		for _, payload := range due {
			pipe.ZRem(ctx, redisDelayedKey, payload)
			pipe.LPush(ctx, redisJobsKey, []byte(payload))
		}
		pipe.Exec(ctx) //nolint:errcheck
	}
}
