package service

import (
	"go.uber.org/zap"

	"github.com/Edimercado/plataforma-escolar/config"
	"github.com/Edimercado/plataforma-escolar/internal/repository"
	"github.com/Edimercado/plataforma-escolar/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Curriculum CurriculumService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：Redis 不可用时课程-科目查询直接落库
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, logger),
		User:       NewUserService(repo, logger),
		Curriculum: NewCurriculumService(repo, rdb, cfg.Redis.CacheTTL, logger),
	}
}
