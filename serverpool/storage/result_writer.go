package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vpnpick/internal/shared/logger"
	"vpnpick/serverpool/model"
)

// ResultWriter 定义了筛选结果持久化的行为。
type ResultWriter interface {
	Write(result model.SelectionResult) error
}

// FileResultWriter 实现了 ResultWriter 接口，把选中服务器的 IP 作为文件的全部内容写入。
type FileResultWriter struct {
	filePath string
	mu       sync.Mutex
}

// NewFileResultWriter 创建一个新的 FileResultWriter 实例。
func NewFileResultWriter(filePath string) *FileResultWriter {
	return &FileResultWriter{
		filePath: filePath,
	}
}

func (w *FileResultWriter) Path() string {
	return w.filePath
}

// Write replaces the file content with result.IP, with no trailing newline.
// The new content is written to a temporary file first and renamed over the
// target so readers never see a partial address.
func (w *FileResultWriter) Write(result model.SelectionResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	l := logger.WithComponent("ServerPool/Storage")

	if result.IP == "" {
		return fmt.Errorf("refusing to write empty IP for server %q", result.Identifier)
	}

	dir := filepath.Dir(w.filePath)
	tmp, err := os.CreateTemp(dir, ".vpnpick-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(result.IP); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write result: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close result: %w", err)
	}
	if err := os.Rename(tmpName, w.filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", w.filePath, err)
	}

	l.Info().Str("path", w.filePath).Str("ip", result.IP).Msg("Wrote best server IP.")
	return nil
}
