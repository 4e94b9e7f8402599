package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Edimercado/plataforma-escolar/config"
)

// Client Redis 客户端封装
// 当前用于课程-科目查询缓存；后续可扩展会话、分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 课程-科目缓存 ──

const subjectsPrefix = "asignaturas:"

// GetSubjects 读取课程对应的科目列表缓存
// 第二个返回值表示是否命中；缓存异常视为未命中
func (c *Client) GetSubjects(ctx context.Context, curso string) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, subjectsPrefix+curso).Result()
	if err != nil {
		if err != goredis.Nil {
			c.logger.Warn("读取科目缓存失败", zap.String("curso", curso), zap.Error(err))
		}
		return nil, false
	}

	var subjects []string
	if err := json.Unmarshal([]byte(raw), &subjects); err != nil {
		c.logger.Warn("科目缓存内容损坏，忽略", zap.String("curso", curso), zap.Error(err))
		return nil, false
	}
	return subjects, true
}

// SetSubjects 写入课程对应的科目列表缓存
func (c *Client) SetSubjects(ctx context.Context, curso string, subjects []string, ttl time.Duration) {
	raw, err := json.Marshal(subjects)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, subjectsPrefix+curso, raw, ttl).Err(); err != nil {
		c.logger.Warn("写入科目缓存失败", zap.String("curso", curso), zap.Error(err))
	}
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
