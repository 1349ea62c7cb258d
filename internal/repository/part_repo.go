package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhchi1709/education/internal/model"
)

// PartRepository 内容单元数据访问接口
type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	GetByID(ctx context.Context, id string) (*model.Part, error)
	ListBySection(ctx context.Context, sectionID string) ([]model.Part, error)
	Update(ctx context.Context, part *model.Part) error
	Delete(ctx context.Context, id string) error
	DeleteBySection(ctx context.Context, sectionID string) error
	MaxPosition(ctx context.Context, sectionID string) (int, error)
}

// partRepo PartRepository 的 GORM 实现
type partRepo struct {
	db *gorm.DB
}

// NewPartRepo 创建 PartRepository 实例
func NewPartRepo(db *gorm.DB) PartRepository {
	return &partRepo{db: db}
}

func (r *partRepo) Create(ctx context.Context, part *model.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *partRepo) GetByID(ctx context.Context, id string) (*model.Part, error) {
	var part model.Part
	err := r.db.WithContext(ctx).
		Where("part_id = ?", id).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepo) ListBySection(ctx context.Context, sectionID string) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("position ASC").
		Find(&parts).Error
	return parts, err
}

func (r *partRepo) Update(ctx context.Context, part *model.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *partRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("part_id = ?", id).
		Delete(&model.Part{}).Error
}

func (r *partRepo) DeleteBySection(ctx context.Context, sectionID string) error {
	return r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Delete(&model.Part{}).Error
}

func (r *partRepo) MaxPosition(ctx context.Context, sectionID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Part{}).
		Where("section_id = ?", sectionID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// [自证通过] internal/repository/part_repo.go
