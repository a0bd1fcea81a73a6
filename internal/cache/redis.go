package cache

import (
	"context"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// tokenBlacklistPrefix 注销登录后的令牌黑名单键前缀
const tokenBlacklistPrefix = "auth:blacklist:"

type RedisCache struct {
	client *redis.Client
}

// global cache instance, nil when redis is not configured
var instance *RedisCache

func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Initialize 初始化全局缓存实例
func Initialize(cfg config.RedisConfig) error {
	c, err := NewRedisCache(cfg)
	if err != nil {
		return err
	}
	instance = c
	return nil
}

// GetRedisCache 获取全局缓存实例，未初始化时返回 nil
func GetRedisCache() *RedisCache {
	return instance
}

// BlacklistToken 将注销的令牌加入黑名单，直到其原本的过期时间
func (c *RedisCache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// 令牌已过期，无需记录
		return nil
	}
	return c.client.Set(ctx, tokenBlacklistPrefix+token, "1", ttl).Err()
}

// IsTokenBlacklisted 检查令牌是否已被注销
func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, tokenBlacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
