package ports

//go:generate go run go.uber.org/mock/mockgen -source=disk.go -destination=mocks/mock_disk.go -package=mocks

import "time"

// DiskStat is the subset of file metadata the scanner needs, returned
// without requiring a concrete os.FileInfo so tests can fake disk state.
type DiskStat struct {
	Exists bool
	Mtime  time.Time
}

// Disk abstracts the filesystem operations the scanner and builder
// need, so tests can substitute an in-memory disk.
type Disk interface {
	// Stat returns metadata for path. A missing file is not an error:
	// callers check DiskStat.Exists.
	Stat(path string) (DiskStat, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	Remove(path string) error
}
