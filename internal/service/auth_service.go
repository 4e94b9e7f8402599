package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/repository"
)

// ErrInvalidCredentials 三字段匹配失败：属正常业务结果，不是存储故障
var ErrInvalidCredentials = errors.New("用户名、密码或角色不匹配")

// AuthService 认证业务接口
type AuthService interface {
	// Login 按 usuario AND clave AND rol 三字段同记录精确匹配，
	// 命中返回完整用户记录，未命中返回 ErrInvalidCredentials
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, logger *zap.Logger) AuthService {
	return &authService{repo: repo, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.FindByCredentials(ctx, req.Usuario, req.Clave, req.Rol)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("登录查询失败", zap.String("usuario", req.Usuario), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}
