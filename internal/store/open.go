package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// BackendType selects the persistence format
type BackendType string

const (
	BackendFiles BackendType = "files"
	BackendBolt  BackendType = "bolt"
)

const tempDirName = "AstroDailyCache"

// CandidateDirs returns the directory fallback chain for a primary location:
// the primary directory, then a shared temp directory. Open adds a private
// per-process temp directory as the last resort.
func CandidateDirs(primary string) []string {
	var dirs []string
	if primary != "" {
		dirs = append(dirs, primary)
	}
	return append(dirs, filepath.Join(os.TempDir(), tempDirName))
}

// Open creates a ContentStore in the first candidate directory that can be
// created and opened. Cache availability is best-effort: only when every
// candidate fails, including a fresh process temp directory, is an error returned.
func Open(candidates []string, backendType BackendType, logger *slog.Logger, opts ...Option) (*ContentStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch backendType {
	case BackendFiles, BackendBolt, "":
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backendType)
	}

	for _, dir := range candidates {
		backend, err := openBackend(dir, backendType)
		if err != nil {
			logger.Warn("cache directory unavailable", "dir", dir, "error", err)
			continue
		}
		logger.Info("cache ready", "location", backend.Location(), "backend", backendType)
		return New(backend, logger, opts...), nil
	}

	dir, err := os.MkdirTemp("", "astrodaily-*")
	if err != nil {
		return nil, fmt.Errorf("no usable cache directory: %w", err)
	}
	backend, err := openBackend(dir, backendType)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("failed to remove temp cache directory", "dir", dir, "error", rmErr)
		}
		return nil, fmt.Errorf("no usable cache directory: %w", err)
	}
	logger.Warn("using process temp directory for cache", "location", backend.Location())
	return New(backend, logger, opts...), nil
}

func openBackend(dir string, backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendBolt:
		return NewBoltBackend(dir)
	case BackendFiles, "":
		return NewFileBackend(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backendType)
	}
}
