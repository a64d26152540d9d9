package database

import (
	"database/sql"
	"fmt"

	"github.com/studysphere/backend/internal/config"

	_ "github.com/lib/pq"
)

func Connect(cfg config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS passages (
		id         BIGSERIAL PRIMARY KEY,
		title      VARCHAR(255) NOT NULL,
		subject    VARCHAR(50) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id             UUID PRIMARY KEY,
		user_id        BIGINT NOT NULL,
		passage_id     BIGINT NOT NULL REFERENCES passages(id),
		score          INT NOT NULL CHECK (score >= 0 AND score <= 100),
		time_taken_sec INT NOT NULL CHECK (time_taken_sec >= 0),
		attempted_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_date ON quiz_attempts(user_id, attempted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_passage ON quiz_attempts(passage_id)`,
		`CREATE INDEX IF NOT EXISTS idx_passages_subject ON passages(subject)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}
