package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/pkg/logger"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// QuestionCache keeps the ordered question list of an assessment in redis.
// A nil client turns every call into a miss.
type QuestionCache struct {
	Redis *redis.Client
	ttl   atomic.Int64
}

func NewQuestionCache(rdb *redis.Client, ttl time.Duration) *QuestionCache {
	c := &QuestionCache{Redis: rdb}
	c.SetTTL(ttl)
	return c
}

func (c *QuestionCache) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}

func (c *QuestionCache) TTL() time.Duration {
	return time.Duration(c.ttl.Load())
}

func questionsKey(assessmentID uint) string {
	return fmt.Sprintf("assessment:%d:questions", assessmentID)
}

func (c *QuestionCache) Get(ctx context.Context, assessmentID uint) ([]model.Question, bool) {
	if c == nil || c.Redis == nil {
		return nil, false
	}
	raw, err := c.Redis.Get(ctx, questionsKey(assessmentID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("question cache read failed", zap.Uint("assessment_id", assessmentID), zap.Error(err))
		}
		return nil, false
	}
	var qs []model.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, false
	}
	return qs, true
}

func (c *QuestionCache) Set(ctx context.Context, assessmentID uint, qs []model.Question) {
	if c == nil || c.Redis == nil {
		return
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, questionsKey(assessmentID), raw, c.TTL()).Err(); err != nil {
		logger.Log.Warn("question cache write failed", zap.Uint("assessment_id", assessmentID), zap.Error(err))
	}
}

func (c *QuestionCache) Invalidate(ctx context.Context, assessmentID uint) {
	if c == nil || c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, questionsKey(assessmentID)).Err(); err != nil {
		logger.Log.Warn("question cache invalidate failed", zap.Uint("assessment_id", assessmentID), zap.Error(err))
	}
}
