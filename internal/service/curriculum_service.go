package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Edimercado/plataforma-escolar/internal/repository"
	"github.com/Edimercado/plataforma-escolar/pkg/redis"
)

// CurriculumService 课程-科目查询业务接口
type CurriculumService interface {
	// SubjectsForCourse 返回课程对应的科目列表
	// 课程不存在与课程无科目配置不作区分，均返回空列表而非错误
	SubjectsForCourse(ctx context.Context, course string) ([]string, error)
}

type curriculumService struct {
	repo     *repository.Repository
	cache    *redis.Client // 可为 nil：无缓存时直接落库
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(repo *repository.Repository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *curriculumService) SubjectsForCourse(ctx context.Context, course string) ([]string, error) {
	if s.cache != nil {
		if subjects, ok := s.cache.GetSubjects(ctx, course); ok {
			return subjects, nil
		}
	}

	cs, err := s.repo.CourseSubject.GetByCourse(ctx, course)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []string{}, nil
		}
		s.logger.Error("查询课程科目失败", zap.String("curso", course), zap.Error(err))
		return nil, err
	}

	subjects := []string(cs.Subjects)
	if subjects == nil {
		subjects = []string{}
	}

	if s.cache != nil {
		s.cache.SetSubjects(ctx, course, subjects, s.cacheTTL)
	}

	return subjects, nil
}
