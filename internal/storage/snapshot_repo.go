package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SnapshotStore defines the interface for index snapshot persistence.
// A snapshot is the complete unit set of one built index.
type SnapshotStore interface {
	// Replace atomically swaps the stored snapshot for the given one.
	Replace(ctx context.Context, dim int, records []*UnitRecord) error
	// LoadAll returns the stored snapshot: vector dimension and all units.
	// Returns ErrNotFound when no snapshot has been saved.
	LoadAll(ctx context.Context) (int, []*UnitRecord, error)
}

// SnapshotRepo provides methods for snapshot operations.
// It implements the SnapshotStore interface.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a new SnapshotRepo.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Replace atomically swaps the stored snapshot for the given one.
// The previous snapshot, if any, is removed in the same transaction.
func (r *SnapshotRepo) Replace(ctx context.Context, dim int, records []*UnitRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM units"); err != nil {
		return fmt.Errorf("failed to clear units: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("failed to clear index meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO index_meta (id, dim) VALUES (1, ?)", dim,
	); err != nil {
		return fmt.Errorf("failed to insert index meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO units (id, content, content_type, article_number, source, source_path, page, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Content, rec.ContentType, rec.ArticleNumber,
			rec.Source, rec.SourcePath, rec.Page, encodeVector(rec.Embedding),
		); err != nil {
			return fmt.Errorf("failed to insert unit %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadAll returns the stored snapshot: vector dimension and all units.
// Returns ErrNotFound when no snapshot has been saved.
func (r *SnapshotRepo) LoadAll(ctx context.Context) (int, []*UnitRecord, error) {
	var dim int
	err := r.db.QueryRowContext(ctx, "SELECT dim FROM index_meta WHERE id = 1").Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil, ErrNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query index meta: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, content, content_type, article_number, source, source_path, page, embedding FROM units",
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*UnitRecord
	for rows.Next() {
		var rec UnitRecord
		var blob []byte
		if err := rows.Scan(
			&rec.ID, &rec.Content, &rec.ContentType, &rec.ArticleNumber,
			&rec.Source, &rec.SourcePath, &rec.Page, &blob,
		); err != nil {
			return 0, nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		rec.Embedding, err = decodeVector(blob)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to decode embedding for unit %s: %w", rec.ID, err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("row iteration error: %w", err)
	}

	return dim, records, nil
}

// encodeVector packs a float32 vector into a little-endian byte blob.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian byte blob into a float32 vector.
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob has invalid length %d", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
