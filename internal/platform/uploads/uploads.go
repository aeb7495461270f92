// Package uploads stores clinic letterhead documents and user signature
// images on disk, with an index of upload metadata kept in Postgres.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("upload not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrBadDimensions      = errors.New("image dimensions do not fit a letterhead banner")
)

// Kind selects the validation rules and index table for an upload.
type Kind string

const (
	KindLetterhead Kind = "letterhead"
	KindSignature  Kind = "signature"
)

// Letterhead banners are cropped from A4 landscape headers; anything far
// off that ratio would be stretched on the printed report.
const (
	minLetterheadRatio = 1.30
	maxLetterheadRatio = 1.55
)

type rules struct {
	maxSize      int64
	contentTypes map[string]bool
	table        string
}

var kindRules = map[Kind]rules{
	KindLetterhead: {
		maxSize: 5 * 1024 * 1024,
		contentTypes: map[string]bool{
			"image/jpeg":      true,
			"application/pdf": true,
		},
		table: "header_documents",
	},
	KindSignature: {
		maxSize: 2 * 1024 * 1024,
		contentTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
		},
		table: "user_signatures",
	},
}

// Document describes one stored upload.
type Document struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UploadedBy   uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	StoredName   string    `json:"stored_name" db:"stored_name"`
	OriginalName string    `json:"original_name" db:"original_name"`
	ContentType  string    `json:"content_type" db:"content_type"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Index persists upload metadata.
type Index interface {
	Insert(ctx context.Context, kind Kind, doc *Document) error
	Get(ctx context.Context, kind Kind, id uuid.UUID) (*Document, error)
	List(ctx context.Context, kind Kind) ([]*Document, error)
}

// Store holds upload content under a base directory with generated UUID
// filenames so original names never reach the filesystem.
type Store struct {
	dir   string
	index Index
}

func NewStore(dir string, index Index) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, index: index}, nil
}

// Save validates and stores one upload, writing the file first and the
// index row second.
func (s *Store) Save(ctx context.Context, kind Kind, uploadedBy uuid.UUID, originalName, contentType string, content io.Reader) (*Document, error) {
	rule, ok := kindRules[kind]
	if !ok {
		return nil, fmt.Errorf("unknown upload kind %q", kind)
	}
	if !rule.contentTypes[contentType] {
		return nil, ErrInvalidContentType
	}

	data, err := io.ReadAll(io.LimitReader(content, rule.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > rule.maxSize {
		return nil, ErrFileTooLarge
	}

	if kind == KindLetterhead && contentType == "image/jpeg" {
		if err := checkLetterheadRatio(data); err != nil {
			return nil, err
		}
	}

	doc := &Document{
		ID:           uuid.New(),
		UploadedBy:   uploadedBy,
		StoredName:   uuid.NewString() + filepath.Ext(originalName),
		OriginalName: originalName,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
	}

	if err := os.WriteFile(filepath.Join(s.dir, doc.StoredName), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := s.index.Insert(ctx, kind, doc); err != nil {
		os.Remove(filepath.Join(s.dir, doc.StoredName))
		return nil, err
	}
	return doc, nil
}

// Open returns the content of an indexed upload.
func (s *Store) Open(ctx context.Context, kind Kind, id uuid.UUID) (io.ReadCloser, *Document, error) {
	doc, err := s.index.Get(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, doc.StoredName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	return f, doc, nil
}

func (s *Store) List(ctx context.Context, kind Kind) ([]*Document, error) {
	return s.index.List(ctx, kind)
}

// checkLetterheadRatio decodes only the JPEG header to verify the banner
// aspect ratio without loading pixel data.
func checkLetterheadRatio(data []byte) error {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode jpeg header: %w", err)
	}
	if cfg.Height == 0 {
		return ErrBadDimensions
	}
	ratio := float64(cfg.Width) / float64(cfg.Height)
	if ratio < minLetterheadRatio || ratio > maxLetterheadRatio {
		return ErrBadDimensions
	}
	return nil
}
