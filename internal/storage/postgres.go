package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/datalake-chat/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("dbname", config.DBName))
	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) SaveInteraction(ctx context.Context, interaction *models.Interaction) error {
	query := `
		INSERT INTO interactions (id, folder, category, question, response_type, answer, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		interaction.ID,
		interaction.Folder,
		string(interaction.Category),
		interaction.Question,
		string(interaction.ResponseType),
		interaction.Answer,
		interaction.Error,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving interaction: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListInteractions(ctx context.Context, limit int) ([]*models.Interaction, error) {
	query := `
		SELECT id, folder, category, question, response_type, answer, error, created_at
		FROM interactions
		ORDER BY created_at DESC
		LIMIT $1`

	// LIMIT NULL returns every row
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := s.db.QueryContext(ctx, query, lim)
	if err != nil {
		return nil, fmt.Errorf("error querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*models.Interaction
	for rows.Next() {
		i := &models.Interaction{}
		var category, responseType string
		err := rows.Scan(
			&i.ID,
			&i.Folder,
			&category,
			&i.Question,
			&responseType,
			&i.Answer,
			&i.Error,
			&i.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning interaction: %w", err)
		}
		i.Category = models.Category(category)
		i.ResponseType = models.ResponseType(responseType)
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return interactions, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
