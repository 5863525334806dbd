package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pretenz/internal/domain"
	"pretenz/internal/port"
)

type parseRecordRepo struct {
	db *sqlx.DB
}

// NewParseRecordRepo creates a new PostgreSQL-backed ParseRecordRepository.
func NewParseRecordRepo(db *sqlx.DB) port.ParseRecordRepository {
	return &parseRecordRepo{db: db}
}

func (r *parseRecordRepo) Create(ctx context.Context, record *domain.ParseRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO parse_records (
			id, status, fields, confidence, warnings, errors, sources, created_at
		) VALUES (
			:id, :status, :fields, :confidence, :warnings, :errors, :sources, :created_at
		)`, record)
	if err != nil {
		return fmt.Errorf("parseRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *parseRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	var record domain.ParseRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM parse_records WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("parseRecordRepo.GetByID: %w", err)
	}
	return &record, nil
}

func (r *parseRecordRepo) List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error) {
	var records []domain.ParseRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM parse_records ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("parseRecordRepo.List: %w", err)
	}
	return records, nil
}
