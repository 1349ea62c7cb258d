package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhchi1709/education/internal/dto"
	"github.com/minhchi1709/education/internal/service"
	"github.com/minhchi1709/education/pkg/response"
)

// SectionHandler 章节与内容单元模块 HTTP 处理器
type SectionHandler struct {
	sectionSvc service.SectionService
}

// NewSectionHandler 创建 SectionHandler
func NewSectionHandler(sectionSvc service.SectionService) *SectionHandler {
	return &SectionHandler{sectionSvc: sectionSvc}
}

// readUploadedFile 从 multipart 表单提取 file 字段的内容与原始文件名。
// 失败时写入 400 响应并返回 ok=false，调用方直接 return。
func readUploadedFile(c *gin.Context) ([]byte, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return nil, "", false
	}
	return data, fh.Filename, true
}

// ────────────────────── 章节 ──────────────────────

// AddSection 创建章节
// POST /api/v1/courses/:id/sections
func (h *SectionHandler) AddSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	section, err := h.sectionSvc.AddSection(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, section)
}

// EditSection 重命名章节
// PUT /api/v1/courses/:id/sections/:sid
func (h *SectionHandler) EditSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	section, err := h.sectionSvc.EditSection(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

// DeleteSection 删除章节及其全部内容单元与成绩
// DELETE /api/v1/courses/:id/sections/:sid
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sectionSvc.DeleteSection(c.Request.Context(), callerID, c.Param("id"), c.Param("sid")); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 文本内容 ──────────────────────

// AddTextPart 添加文本内容
// POST /api/v1/courses/:id/sections/:sid/parts/text
func (h *SectionHandler) AddTextPart(c *gin.Context) {
	var req dto.TextPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.AddTextPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, part)
}

// EditTextPart 编辑文本内容（整体替换）
// PUT /api/v1/courses/:id/sections/:sid/parts/text/:pid
func (h *SectionHandler) EditTextPart(c *gin.Context) {
	var req dto.TextPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.EditTextPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, part)
}

// DeleteTextPart 删除文本内容
// DELETE /api/v1/courses/:id/sections/:sid/parts/text/:pid
func (h *SectionHandler) DeleteTextPart(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sectionSvc.DeleteTextPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid")); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 文件内容 ──────────────────────

// AddFilePart 添加文件内容（multipart 表单）
// POST /api/v1/courses/:id/sections/:sid/parts/file
func (h *SectionHandler) AddFilePart(c *gin.Context) {
	var req dto.FilePartRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.AddFilePart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), &req, data, filename)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, part)
}

// EditFilePart 编辑文件内容（替换元数据与文件）
// PUT /api/v1/courses/:id/sections/:sid/parts/file/:pid
func (h *SectionHandler) EditFilePart(c *gin.Context) {
	var req dto.FilePartRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.EditFilePart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req, data, filename)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, part)
}

// DeleteFilePart 删除文件内容
// DELETE /api/v1/courses/:id/sections/:sid/parts/file/:pid
func (h *SectionHandler) DeleteFilePart(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sectionSvc.DeleteFilePart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid")); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 作业内容 ──────────────────────

// AddAssignmentPart 布置作业（multipart 表单，含时间窗）
// POST /api/v1/courses/:id/sections/:sid/parts/assignment
func (h *SectionHandler) AddAssignmentPart(c *gin.Context) {
	var req dto.AssignmentPartRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.AddAssignmentPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), &req, data, filename)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, part)
}

// EditAssignmentPart 编辑作业（替换元数据、时间窗与附件）
// PUT /api/v1/courses/:id/sections/:sid/parts/assignment/:pid
func (h *SectionHandler) EditAssignmentPart(c *gin.Context) {
	var req dto.AssignmentPartRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	part, err := h.sectionSvc.EditAssignmentPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid"), &req, data, filename)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, part)
}

// DeleteAssignmentPart 删除作业及其成绩台账
// DELETE /api/v1/courses/:id/sections/:sid/parts/assignment/:pid
func (h *SectionHandler) DeleteAssignmentPart(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sectionSvc.DeleteAssignmentPart(c.Request.Context(), callerID, c.Param("id"), c.Param("sid"), c.Param("pid")); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *SectionHandler) handleSectionError(c *gin.Context, err error) {
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
	case errors.Is(err, service.ErrFileStorageFailed):
		response.Error(c, http.StatusBadGateway, 13004, "课件文件存储失败")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/section_handler.go
