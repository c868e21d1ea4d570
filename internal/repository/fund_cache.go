package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fundsystem/internal/model"

	"github.com/go-redis/redis/v8"
)

const (
	fundCacheKeyPrefix = "fund:cache:"
	fundCacheListKey   = "fund:cache:list"
)

// CachedFundRepository 带 Redis 缓存的基金目录
//
// 采用 Cache-Aside 模式：先查缓存，未命中再查底层仓储并回填。
// 基金目录只读，不存在缓存一致性问题，过期时间只是兜底。
// Redis 故障时直接降级到底层仓储，不影响业务。
type CachedFundRepository struct {
	inner  FundRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedFundRepository(inner FundRepository, client *redis.Client, ttl time.Duration) *CachedFundRepository {
	return &CachedFundRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func (r *CachedFundRepository) Get(ctx context.Context, id string) (*model.Fund, error) {
	key := fundCacheKeyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var fund model.Fund
		if err := json.Unmarshal(data, &fund); err == nil {
			return &fund, nil
		}
	} else if err != redis.Nil {
		log.Printf("[FundCache] 查询缓存失败，降级直查: key=%s, err=%v", key, err)
	}

	fund, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.setCache(ctx, key, fund)
	return fund, nil
}

func (r *CachedFundRepository) List(ctx context.Context) ([]model.Fund, error) {
	data, err := r.client.Get(ctx, fundCacheListKey).Bytes()
	if err == nil {
		var funds []model.Fund
		if err := json.Unmarshal(data, &funds); err == nil {
			return funds, nil
		}
	} else if err != redis.Nil {
		log.Printf("[FundCache] 查询缓存失败，降级直查: key=%s, err=%v", fundCacheListKey, err)
	}

	funds, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	r.setCache(ctx, fundCacheListKey, funds)
	return funds, nil
}

func (r *CachedFundRepository) setCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		log.Printf("[FundCache] 回填缓存失败: key=%s, err=%v", key, err)
	}
}
