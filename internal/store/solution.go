package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SolutionStore struct {
	db *pgxpool.Pool
}

func NewSolutionStore(db *pgxpool.Pool) *SolutionStore {
	return &SolutionStore{db: db}
}

// solutionResult is the part of a solution kept in the result column.
type solutionResult struct {
	Conclusions []domain.Conclusion               `json:"conclusions"`
	Facts       map[domain.Kind][]domain.FactView `json:"facts"`
	Faults      []domain.RuleFault                `json:"faults,omitempty"`
}

func (s *SolutionStore) Create(ctx context.Context, sol *domain.Solution) error {
	recordsJSON, err := json.Marshal(sol.Records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	resultJSON, err := json.Marshal(solutionResult{
		Conclusions: sol.Conclusions,
		Facts:       sol.Facts,
		Faults:      sol.Faults,
	})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	var name *string
	if sol.Name != "" {
		name = &sol.Name
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO solutions (id, name, status, rounds, saturated, hit_ceiling, conclusion_count, records, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sol.ID, name, sol.Status, sol.Rounds, sol.Saturated, sol.HitCeiling,
		len(sol.Conclusions), recordsJSON, resultJSON, sol.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *SolutionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	sol := &domain.Solution{}
	var name *string
	var recordsJSON, resultJSON []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, name, status, rounds, saturated, hit_ceiling, records, result, created_at
		 FROM solutions WHERE id = $1`,
		id,
	).Scan(&sol.ID, &name, &sol.Status, &sol.Rounds, &sol.Saturated, &sol.HitCeiling,
		&recordsJSON, &resultJSON, &sol.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if name != nil {
		sol.Name = *name
	}

	if err := json.Unmarshal(recordsJSON, &sol.Records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	var res solutionResult
	if err := json.Unmarshal(resultJSON, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	sol.Conclusions = res.Conclusions
	sol.Facts = res.Facts
	sol.Faults = res.Faults
	return sol, nil
}

func (s *SolutionStore) List(ctx context.Context, limit int) ([]domain.SolutionSummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, status, conclusion_count, created_at
		 FROM solutions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SolutionSummary
	for rows.Next() {
		var sum domain.SolutionSummary
		var name *string
		if err := rows.Scan(&sum.ID, &name, &sum.Status, &sum.Conclusions, &sum.CreatedAt); err != nil {
			return nil, err
		}
		if name != nil {
			sum.Name = *name
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes solutions created before cutoff.
func (s *SolutionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM solutions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
