package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Edimercado/plataforma-escolar/internal/model"
)

// CourseSubjectRepository 课程-科目数据访问接口
// 本服务对该集合只读；写入由外部管理流程完成
type CourseSubjectRepository interface {
	// GetByCourse 按课程代码精确匹配，取首条
	GetByCourse(ctx context.Context, course string) (*model.CourseSubject, error)
}

// courseSubjectRepo CourseSubjectRepository 的 GORM 实现
type courseSubjectRepo struct {
	db *gorm.DB
}

// NewCourseSubjectRepo 创建 CourseSubjectRepository 实例
func NewCourseSubjectRepo(db *gorm.DB) CourseSubjectRepository {
	return &courseSubjectRepo{db: db}
}

func (r *courseSubjectRepo) GetByCourse(ctx context.Context, course string) (*model.CourseSubject, error) {
	var cs model.CourseSubject
	err := r.db.WithContext(ctx).
		Where("curso = ?", course).
		First(&cs).Error
	if err != nil {
		return nil, err
	}
	return &cs, nil
}
