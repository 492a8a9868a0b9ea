package failuresink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisStreamName = "cotask:failures"

// RedisSink appends failure records to a Redis stream so they survive a
// process restart. It is write-mostly: List reads back recent entries for
// the control API, but nothing in the engine ever consumes from it again.
type RedisSink struct {
	client *redis.Client
	maxLen int64
}

// NewRedisSink returns a RedisSink bounded to approximately maxLen entries.
func NewRedisSink(client *redis.Client, maxLen int64) *RedisSink {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &RedisSink{client: client, maxLen: maxLen}
}

func (s *RedisSink) Add(r Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: redisStreamName,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{"data": string(data)},
	})
}

func (s *RedisSink) List(limit int) []Record {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count := int64(limit)
	if count <= 0 {
		count = 100
	}
	msgs, err := s.client.XRevRangeN(ctx, redisStreamName, "+", "-", count).Result()
	if err != nil {
		return nil
	}

	records := make([]Record, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		raw, ok := msgs[i].Values["data"].(string)
		if !ok {
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records
}

func (s *RedisSink) Size() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := s.client.XLen(ctx, redisStreamName).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

func (s *RedisSink) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.client.Del(ctx, redisStreamName)
}
