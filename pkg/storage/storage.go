// Package storage keeps generated files on local disk, builds their public URLs and
// records every stored asset in a small SQL index.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Asset kinds.
const (
	KindScreenshot = "screenshot"
	KindIcon       = "icon"
	KindTheme      = "theme"
)

// Asset is the index record of a stored file.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UUID        string    `gorm:"uniqueIndex;size:36" json:"id"`
	Kind        string    `gorm:"index;size:32" json:"kind"`
	FileKey     string    `gorm:"index;size:64" json:"fileKey,omitempty"`
	NodeID      string    `gorm:"size:64" json:"nodeId,omitempty"`
	NodeName    string    `json:"nodeName,omitempty"`
	FileName    string    `json:"fileName"`
	Path        string    `json:"path"`
	ContentType string    `gorm:"size:64" json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Config configures a Store.
type Config struct {
	Dir       string // root directory for stored files
	PublicURL string // base URL the directory is served under, e.g. http://localhost:8080/files
	DBPath    string // sqlite database file; empty keeps the index in memory
}

// Store writes files below Dir and indexes them.
type Store struct {
	dir       string
	publicURL string
	db        *gorm.DB
}

// Open creates the storage directory, opens the index and migrates it.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dsn := cfg.DBPath
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	} else if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Asset{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{
		dir:       cfg.Dir,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		db:        db,
	}, nil
}

// Dir returns the root directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save writes data under <dir>/<kind>/<uuid>/<fileName> and records it. The returned
// asset carries the public URL of the file.
func (s *Store) Save(ctx context.Context, meta Asset, data []byte) (*Asset, error) {
	if meta.Kind == "" {
		return nil, fmt.Errorf("asset kind is required")
	}

	fileName := sanitizeFileName(meta.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("invalid file name %q", meta.FileName)
	}

	id := uuid.NewString()
	rel := path.Join(meta.Kind, id, fileName)
	full := filepath.Join(s.dir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file %q: %w", full, err)
	}

	asset := meta
	asset.ID = 0
	asset.UUID = id
	asset.FileName = fileName
	asset.Path = rel
	asset.Size = int64(len(data))
	asset.URL = s.URL(rel)

	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		os.Remove(full)
		return nil, fmt.Errorf("failed to record asset: %w", err)
	}

	return &asset, nil
}

// URL returns the public URL of a stored relative path.
func (s *Store) URL(rel string) string {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	escaped := strings.Join(segments, "/")
	if s.publicURL == "" {
		return "/" + escaped
	}
	return s.publicURL + "/" + escaped
}

// Get returns the asset with the given public id.
func (s *Store) Get(ctx context.Context, id string) (*Asset, error) {
	var asset Asset
	if err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// List returns the most recent assets first, optionally filtered by kind.
// A non-positive limit defaults to 50.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]Asset, error) {
	if limit <= 0 {
		limit = 50
	}

	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var assets []Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// sanitizeFileName keeps only the base name and refuses dot names.
func sanitizeFileName(name string) string {
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if name == "/" || name == "." || name == ".." {
		return ""
	}
	return name
}
