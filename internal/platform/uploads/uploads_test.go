package uploads

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"

	"github.com/google/uuid"
)

type memIndex struct {
	docs map[Kind]map[uuid.UUID]*Document
}

func newMemIndex() *memIndex {
	return &memIndex{docs: map[Kind]map[uuid.UUID]*Document{
		KindLetterhead: {},
		KindSignature:  {},
	}}
}

func (m *memIndex) Insert(_ context.Context, kind Kind, doc *Document) error {
	m.docs[kind][doc.ID] = doc
	return nil
}

func (m *memIndex) Get(_ context.Context, kind Kind, id uuid.UUID) (*Document, error) {
	doc, ok := m.docs[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *memIndex) List(_ context.Context, kind Kind) ([]*Document, error) {
	var out []*Document
	for _, doc := range m.docs[kind] {
		out = append(out, doc)
	}
	return out, nil
}

func newTestStore(t *testing.T) (*Store, *memIndex) {
	t.Helper()
	index := newMemIndex()
	store, err := NewStore(t.TempDir(), index)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, index
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestSaveLetterheadAcceptsBannerRatio(t *testing.T) {
	store, _ := newTestStore(t)

	// 1414x1000 approximates an A4 landscape banner.
	data := jpegBytes(t, 1414, 1000)
	doc, err := store.Save(context.Background(), KindLetterhead, uuid.New(),
		"header.jpg", "image/jpeg", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if doc.StoredName == "header.jpg" {
		t.Error("stored name must be generated, not the original")
	}

	rc, got, err := store.Open(context.Background(), KindLetterhead, doc.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()
	if got.OriginalName != "header.jpg" {
		t.Errorf("original name lost, got %q", got.OriginalName)
	}
}

func TestSaveLetterheadRejectsWrongRatio(t *testing.T) {
	store, _ := newTestStore(t)

	// Square image, nowhere near a letterhead banner.
	data := jpegBytes(t, 500, 500)
	_, err := store.Save(context.Background(), KindLetterhead, uuid.New(),
		"square.jpg", "image/jpeg", bytes.NewReader(data))
	if !errors.Is(err, ErrBadDimensions) {
		t.Fatalf("expected ErrBadDimensions, got %v", err)
	}
}

func TestSaveRejectsDisallowedContentType(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(context.Background(), KindLetterhead, uuid.New(),
		"header.png", "image/png", bytes.NewReader([]byte("png data")))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("letterhead png: expected ErrInvalidContentType, got %v", err)
	}

	_, err = store.Save(context.Background(), KindSignature, uuid.New(),
		"sig.pdf", "application/pdf", bytes.NewReader([]byte("pdf data")))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("signature pdf: expected ErrInvalidContentType, got %v", err)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store, _ := newTestStore(t)

	big := make([]byte, 2*1024*1024+1)
	_, err := store.Save(context.Background(), KindSignature, uuid.New(),
		"sig.png", "image/png", bytes.NewReader(big))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	// Signatures have no ratio constraint.
	data := jpegBytes(t, 300, 120)
	doc, err := store.Save(context.Background(), KindSignature, uuid.New(),
		"sig.jpg", "image/jpeg", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	docs, err := store.List(context.Background(), KindSignature)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != doc.ID {
		t.Errorf("unexpected listing: %+v", docs)
	}
}
