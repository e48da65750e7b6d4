// Package storage 提供 JSON 快照的本地持久化
// 每次状态变更都整体落盘 (snapshot persistence)，采用临时文件 + rename 的原子写入，
// 中途崩溃不会损坏上一份快照
package storage

import (
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"
)

// Meta 快照元信息，便于未来的 schema 迁移与排查
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMeta 当前格式版本的元信息
func NewMeta() Meta {
	return Meta{Storage: "json_snapshot", Version: 1, Timestamp: time.Now()}
}

// FileStore 单个快照文件
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load 读取快照并反序列化到 v
// 文件不存在不是错误 (首次启动从空开始)，返回 found=false
func (s *FileStore) Load(v any) (bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no snapshot file, starting fresh", zap.String("path", s.path))
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return false, err
	}
	return true, nil
}

// Save 将 v 序列化后原子写入
// 先写 .tmp 再 rename 替换正式文件，避免写到一半留下坏文件
func (s *FileStore) Save(v any) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, s.path)
}
