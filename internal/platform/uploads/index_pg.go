package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type indexPG struct {
	pool *pgxpool.Pool
}

func NewIndex(pool *pgxpool.Pool) Index {
	return &indexPG{pool: pool}
}

func tableFor(kind Kind) (string, error) {
	rule, ok := kindRules[kind]
	if !ok {
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}
	return rule.table, nil
}

func (i *indexPG) Insert(ctx context.Context, kind Kind, doc *Document) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = i.pool.Exec(ctx, `
		INSERT INTO `+table+` (id, uploaded_by, stored_name, original_name, content_type, size_bytes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		doc.ID, doc.UploadedBy, doc.StoredName, doc.OriginalName, doc.ContentType, doc.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("index upload: %w", err)
	}
	return nil
}

func (i *indexPG) Get(ctx context.Context, kind Kind, id uuid.UUID) (*Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var doc Document
	err = i.pool.QueryRow(ctx, `
		SELECT id, uploaded_by, stored_name, original_name, content_type, size_bytes, uploaded_at
		FROM `+table+` WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.UploadedBy, &doc.StoredName, &doc.OriginalName,
		&doc.ContentType, &doc.SizeBytes, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return &doc, nil
}

func (i *indexPG) List(ctx context.Context, kind Kind) ([]*Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := i.pool.Query(ctx, `
		SELECT id, uploaded_by, stored_name, original_name, content_type, size_bytes, uploaded_at
		FROM `+table+` ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.UploadedBy, &doc.StoredName, &doc.OriginalName,
			&doc.ContentType, &doc.SizeBytes, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		out = append(out, &doc)
	}
	return out, rows.Err()
}
