package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Edimercado/plataforma-escolar/internal/dto"
	"github.com/Edimercado/plataforma-escolar/internal/model"
	"github.com/Edimercado/plataforma-escolar/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound  = errors.New("用户不存在")
	ErrUserExists    = errors.New("用户已存在")
	ErrMissingFields = errors.New("缺少必填字段")
)

// UserService 用户业务接口
type UserService interface {
	// Register 校验必填字段并检查用户名唯一性后创建用户，
	// 校验失败不触达存储
	Register(ctx context.Context, req *dto.RegisterRequest) error
	List(ctx context.Context) ([]dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	// Update 覆盖请求中出现的字段（usuario/correo/rol/grado/materia），clave 不变
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row     int
	Usuario string
	Clave   string
	Correo  string
	Rol     string
	Grado   string
	Materia string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if req.Usuario == "" || req.Clave == "" || req.Correo == "" || req.Rol == "" {
		return ErrMissingFields
	}

	// 检查用户名唯一性（先查后写，非原子；唯一索引兜底见下方 Create）
	if _, err := s.repo.User.GetByUsername(ctx, req.Usuario); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.String("usuario", req.Usuario), zap.Error(err))
		return err
	}

	user := &model.User{
		Username: req.Usuario,
		Password: req.Clave,
		Email:    req.Correo,
		Role:     req.Rol,
		Grade:    req.Grado,
		Subject:  req.Materia,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册穿过唯一性预检时，由唯一索引兜底返回同样的冲突结果
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		s.logger.Error("创建用户失败", zap.String("usuario", req.Usuario), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}

	return result, nil
}

// ────────────────────── GetByUsername ──────────────────────

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("usuario", username), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 请求体出现的字段才参与覆盖（含空串值），缺失字段保持原值
	fields := make(map[string]interface{}, 5)
	if req.Usuario != nil {
		fields["usuario"] = *req.Usuario
	}
	if req.Correo != nil {
		fields["correo"] = *req.Correo
	}
	if req.Rol != nil {
		fields["rol"] = *req.Rol
	}
	if req.Grado != nil {
		fields["grado"] = *req.Grado
	}
	if req.Materia != nil {
		fields["materia"] = *req.Materia
	}

	if err := s.repo.User.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("重载用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

// 解析类错误会原样返回给前端，保持与接口其余文案一致使用西语
var (
	ErrImportNoData      = errors.New("El archivo Excel no contiene filas de datos (la primera fila es el encabezado)")
	ErrImportTooManyRows = fmt.Errorf("El archivo supera el límite de %d filas", maxImportRows)
	ErrImportBadHeader   = errors.New("Al encabezado le faltan columnas obligatorias (usuario/clave/correo/rol)")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("No se pudo leer el archivo Excel: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["usuario"] < 0 || colIndex["clave"] < 0 || colIndex["correo"] < 0 || colIndex["rol"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{Row: i + 1}

		cell := func(name string) string {
			if idx := colIndex[name]; idx >= 0 && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		item.Usuario = cell("usuario")
		item.Clave = cell("clave")
		item.Correo = cell("correo")
		item.Rol = cell("rol")
		item.Grado = cell("grado")
		item.Materia = cell("materia")

		// 跳过全空行
		if item.Usuario == "" && item.Clave == "" && item.Correo == "" && item.Rol == "" &&
			item.Grado == "" && item.Materia == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"usuario": -1,
		"clave":   -1,
		"correo":  -1,
		"rol":     -1,
		"grado":   -1,
		"materia": -1,
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[name]; ok {
			idx[name] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 批量导入用户：先整体预校验（只读），再在单个事务中写入全部合法行
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Success: true, Total: len(rows)}

	// 第一阶段：数据预校验（不触达数据库写操作）
	var validRows []ImportUserRow
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		// 校验必填字段
		if row.Usuario == "" || row.Clave == "" || row.Correo == "" || row.Rol == "" {
			resp.Fallidos++
			resp.Errores = append(resp.Errores, dto.ImportUserError{
				Fila: row.Row, Motivo: "Faltan campos obligatorios",
			})
			continue
		}

		// 文件内用户名查重
		if seen[row.Usuario] {
			resp.Fallidos++
			resp.Errores = append(resp.Errores, dto.ImportUserError{
				Fila: row.Row, Motivo: fmt.Sprintf("Usuario duplicado en el archivo: %s", row.Usuario),
			})
			continue
		}

		// 检查用户名唯一性
		if _, err := s.repo.User.GetByUsername(ctx, row.Usuario); err == nil {
			resp.Fallidos++
			resp.Errores = append(resp.Errores, dto.ImportUserError{
				Fila: row.Row, Motivo: fmt.Sprintf("El usuario ya existe: %s", row.Usuario),
			})
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("导入预校验查询失败", zap.Int("row", row.Row), zap.Error(err))
			return nil, err
		}

		seen[row.Usuario] = true
		validRows = append(validRows, row)
	}

	// 第二阶段：在事务中批量创建所有通过校验的用户
	if len(validRows) > 0 {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			s.logger.Error("开启事务失败", zap.Error(err))
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				if tx != nil {
					tx.Rollback()
				}
				panic(r)
			}
		}()

		txRepo := s.repo.WithTx(tx)

		for _, row := range validRows {
			user := &model.User{
				Username: row.Usuario,
				Password: row.Clave,
				Email:    row.Correo,
				Role:     row.Rol,
				Grade:    row.Grado,
				Subject:  row.Materia,
			}

			if err := txRepo.User.Create(ctx, user); err != nil {
				// 事务中任一写入失败则全部回滚
				if tx != nil {
					tx.Rollback()
				}
				s.logger.Error("导入用户写入失败，事务回滚",
					zap.Int("row", row.Row), zap.Error(err))
				return nil, fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", row.Row, err)
			}
			resp.Exitosos++
		}

		if tx != nil {
			if err := tx.Commit().Error; err != nil {
				s.logger.Error("提交事务失败", zap.Error(err))
				return nil, err
			}
		}
	}

	return resp, nil
}

// ── 内部辅助方法 ──

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:      user.UserID,
		Usuario: user.Username,
		Clave:   user.Password,
		Correo:  user.Email,
		Rol:     user.Role,
		Grado:   user.Grade,
		Materia: user.Subject,
	}
}
