package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Kamar-Folarin/github-resume/internal/models"
)

// Store defines the interface for resume archive operations
type Store interface {
	SaveResume(ctx context.Context, record *models.ResumeRecord) error
	ListResumes(ctx context.Context, username string, limit int) ([]*models.ResumeRecord, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(s.db, "internal/db/migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveResume archives one generated resume for a username
func (s *PostgresStore) SaveResume(ctx context.Context, record *models.ResumeRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal resume result: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO resumes (username, result_json, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, record.Username, resultJSON).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}

	return nil
}

// ListResumes returns the most recently archived resumes for a username
func (s *PostgresStore) ListResumes(ctx context.Context, username string, limit int) ([]*models.ResumeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, result_json, created_at FROM resumes
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	var records []*models.ResumeRecord
	for rows.Next() {
		var record models.ResumeRecord
		var resultJSON []byte
		if err := rows.Scan(&record.ID, &record.Username, &resultJSON, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}

		if err := json.Unmarshal(resultJSON, &record.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resume result: %w", err)
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resume rows: %w", err)
	}

	return records, nil
}
