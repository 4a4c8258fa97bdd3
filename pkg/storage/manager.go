package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/petpalace/petpalace/config"
	"github.com/petpalace/petpalace/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultName string
)

// Connect boots the configured disks. The local disk is always available;
// the s3 disk only when S3_BUCKET is set. Call once at startup.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultName = config.StorageDefault()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultName]; !ok {
		logger.Warn("storage: default disk unavailable, using local", "disk", defaultName)
		defaultName = "local"
	}
}

// Use returns a named disk, panicking on an unknown name since that is a
// boot-time wiring mistake.
func Use(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := disks[name]
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Register plugs in a custom disk, mainly for tests.
func Register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

func std() Disk {
	mu.RLock()
	name := defaultName
	mu.RUnlock()
	return Use(name)
}

// Default-disk helpers.

func Put(path string, content []byte) error    { return std().Put(path, content) }
func PutStream(path string, r io.Reader) error { return std().PutStream(path, r) }
func Get(path string) ([]byte, error)          { return std().Get(path) }
func GetStream(path string) (io.ReadCloser, error) {
	return std().GetStream(path)
}
func Exists(path string) bool                  { return std().Exists(path) }
func Delete(path string) error                 { return std().Delete(path) }
func URL(path string) string                   { return std().URL(path) }
func Files(directory string) ([]string, error) { return std().Files(directory) }
