package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	CourseSubject CourseSubjectRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		CourseSubject: NewCourseSubjectRepo(db),
		db:            db,
	}
}

// BeginTx 开启事务，返回事务句柄
// 无底层连接时（测试替身注入）返回 nil 句柄，调用方按非事务路径执行
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{
		User:          NewUserRepo(tx),
		CourseSubject: NewCourseSubjectRepo(tx),
		db:            tx,
	}
}
