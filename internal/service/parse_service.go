package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pretenz/internal/domain"
	"pretenz/internal/parser"
	"pretenz/internal/port"
)

// ParseService defines the claim parsing contract: run the extraction
// pipeline over raw document text and persist the outcome.
type ParseService interface {
	Parse(ctx context.Context, text string) (*domain.ParseRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error)
}

type parseService struct {
	parser *parser.IntegratedParser
	repo   port.ParseRecordRepository
}

// NewParseService creates a new ParseService implementation.
func NewParseService(p *parser.IntegratedParser, repo port.ParseRecordRepository) ParseService {
	return &parseService{parser: p, repo: repo}
}

func (s *parseService) Parse(ctx context.Context, text string) (*domain.ParseRecord, error) {
	result, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	record, err := recordFromResult(result)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *parseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *parseService) List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func recordFromResult(result *domain.ParsingResult) (*domain.ParseRecord, error) {
	status := domain.ParseStatusCompleted
	if len(result.Errors) > 0 {
		status = domain.ParseStatusInvalid
	}

	fields, err := json.Marshal(result.Fields)
	if err != nil {
		return nil, fmt.Errorf("parseService: marshaling fields: %w", err)
	}
	warnings, err := json.Marshal(nonNil(result.Warnings))
	if err != nil {
		return nil, fmt.Errorf("parseService: marshaling warnings: %w", err)
	}
	errs, err := json.Marshal(nonNil(result.Errors))
	if err != nil {
		return nil, fmt.Errorf("parseService: marshaling errors: %w", err)
	}
	sources, err := json.Marshal(result.Sources)
	if err != nil {
		return nil, fmt.Errorf("parseService: marshaling sources: %w", err)
	}

	return &domain.ParseRecord{
		ID:         uuid.New(),
		Status:     status,
		Fields:     fields,
		Confidence: result.Confidence,
		Warnings:   warnings,
		Errors:     errs,
		Sources:    sources,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// nonNil keeps stored JSON arrays as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
