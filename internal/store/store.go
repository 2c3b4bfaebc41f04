package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// Size ceilings. Entries above these are rejected on write and ignored on read.
const (
	MaxRecordBytes = 10 * 1024 * 1024
	MaxImageBytes  = 20 * 1024 * 1024
)

// Entry names
const (
	recordName  = "last_apod.json"
	imagePrefix = "image_"
)

// Backend is a flat key-value byte store. Missing entries report fs.ErrNotExist.
// Write must be atomic: a reader sees the old value or the new one, never a mix.
type Backend interface {
	Read(name string) ([]byte, error)
	Size(name string) (int64, error)
	Write(name string, data []byte) error
	Remove(name string) error
	List() ([]string, error)
	Location() string
	Close() error
}

// cachedRecord is the persisted form of the cache slot
type cachedRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	MediaType   string `json:"media_type"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
}

// ContentStore implements domain.ContentCache: one last-known-good record slot
// plus size-capped images keyed by source URL. Concurrent writers to the same
// entry are not serialized; the last write wins.
type ContentStore struct {
	backend        Backend
	logger         *slog.Logger
	maxRecordBytes int64
	maxImageBytes  int64
}

// Option configures a ContentStore
type Option func(*ContentStore)

// WithLimits overrides the record and image ceilings
func WithLimits(maxRecordBytes, maxImageBytes int64) Option {
	return func(s *ContentStore) {
		s.maxRecordBytes = maxRecordBytes
		s.maxImageBytes = maxImageBytes
	}
}

// New wraps a backend in a ContentStore
func New(backend Backend, logger *slog.Logger, opts ...Option) *ContentStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ContentStore{
		backend:        backend,
		logger:         logger,
		maxRecordBytes: MaxRecordBytes,
		maxImageBytes:  MaxImageBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location describes where entries are persisted
func (s *ContentStore) Location() string {
	return s.backend.Location()
}

func (s *ContentStore) Close() error {
	return s.backend.Close()
}

// === Record slot ===

// PutRecord overwrites the record slot
func (s *ContentStore) PutRecord(record *domain.ContentRecord) error {
	f := record.Fields()
	data, err := json.Marshal(cachedRecord{
		ID:          record.ID,
		Date:        f.Date,
		Title:       f.Title,
		Explanation: f.Explanation,
		MediaType:   f.MediaType,
		URL:         f.URL,
		HDURL:       f.HDURL,
		Copyright:   f.Copyright,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheWrite, err)
	}
	if int64(len(data)) > s.maxRecordBytes {
		return fmt.Errorf("%w: record is %d bytes, limit %d", domain.ErrCacheWrite, len(data), s.maxRecordBytes)
	}

	if err := s.backend.Write(recordName, data); err != nil {
		s.logger.Error("failed to write record cache", "error", err)
		return fmt.Errorf("%w: %w", domain.ErrCacheWrite, err)
	}
	s.logger.Info("record cached", "date", record.ID, "title", record.Title)
	return nil
}

// GetRecord reads the record slot. Oversized or corrupt entries read as a miss.
func (s *ContentStore) GetRecord() (*domain.ContentRecord, bool) {
	data, ok := s.read(recordName, s.maxRecordBytes)
	if !ok {
		return nil, false
	}

	var cached cachedRecord
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Error("failed to decode record cache", "error", err)
		return nil, false
	}

	record, err := domain.NewContentRecord(domain.RecordFields{
		Date:        cached.Date,
		Title:       cached.Title,
		Explanation: cached.Explanation,
		MediaType:   cached.MediaType,
		URL:         cached.URL,
		HDURL:       cached.HDURL,
		Copyright:   cached.Copyright,
	})
	if err != nil {
		s.logger.Error("cached record is invalid", "error", err)
		return nil, false
	}
	if cached.ID != "" && cached.ID != record.ID {
		s.logger.Error("cached record id does not match its date", "id", cached.ID, "date", record.ID)
		return nil, false
	}

	s.logger.Debug("cached record loaded", "date", record.ID)
	return record, true
}

// === Images ===

// PutImage overwrites the image stored for key. Payloads above the ceiling are
// rejected and nothing is written.
func (s *ContentStore) PutImage(key string, data []byte) error {
	if int64(len(data)) > s.maxImageBytes {
		return fmt.Errorf("%w: %w: %d bytes, limit %d", domain.ErrCacheWrite, domain.ErrImageTooLarge, len(data), s.maxImageBytes)
	}
	if err := s.backend.Write(ImageName(key), data); err != nil {
		s.logger.Error("failed to write image cache", "error", err, "url", key)
		return fmt.Errorf("%w: %w", domain.ErrCacheWrite, err)
	}
	s.logger.Debug("image cached", "url", key, "bytes", len(data))
	return nil
}

// GetImage reads the image stored for key. Oversized or unreadable entries read as a miss.
func (s *ContentStore) GetImage(key string) ([]byte, bool) {
	return s.read(ImageName(key), s.maxImageBytes)
}

// ImageName maps a source URL to its stable entry name
func ImageName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return imagePrefix + hex.EncodeToString(hash[:16])
}

// === Maintenance ===

// Clear removes every entry. Individual removal failures are logged and skipped.
func (s *ContentStore) Clear() error {
	names, err := s.backend.List()
	if err != nil {
		s.logger.Error("failed to list cache", "error", err)
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	removed := 0
	for _, name := range names {
		if err := s.backend.Remove(name); err != nil {
			s.logger.Error("failed to remove cache entry", "name", name, "error", err)
			continue
		}
		removed++
	}

	s.logger.Info("cache cleared", "removed", removed, "location", s.backend.Location())
	return nil
}

// read returns an entry's bytes when it exists, fits under limit and is readable
func (s *ContentStore) read(name string, limit int64) ([]byte, bool) {
	size, err := s.backend.Size(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("failed to stat cache entry", "name", name, "error", err)
		}
		return nil, false
	}
	if size > limit {
		s.logger.Error("cache entry too large", "name", name, "bytes", size, "limit", limit)
		return nil, false
	}

	data, err := s.backend.Read(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("failed to read cache entry", "name", name, "error", err)
		}
		return nil, false
	}
	// The entry may have been replaced between Size and Read
	if int64(len(data)) > limit {
		s.logger.Error("cache entry too large", "name", name, "bytes", len(data), "limit", limit)
		return nil, false
	}
	return data, true
}
