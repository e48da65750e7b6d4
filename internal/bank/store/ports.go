package store

// SnapshotStore 快照持久化端口
// 这是一个 Port，具体实现 (JSON 文件) 在 internal/platform/storage
//
//go:generate mockgen -destination=mocks/mock_snapshot.go -package=mocks -source=ports.go SnapshotStore
type SnapshotStore interface {
	// Save 整体序列化并原子写入
	Save(v any) error

	// Load 读取快照到 v；文件不存在时返回 found=false 且无错误
	Load(v any) (found bool, err error)
}
