package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storyweaver-server/internal/models"
)

// DBTX abstracts a pgx pool, connection or transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepository persists the reader profile collection.
type ProfileRepository interface {
	List(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoryRepository persists interactive-fiction sessions. Update only touches
// the mutable part of a story row (chapters, current choices, updated_at):
// hero, setting and the copied reader configuration are immutable after Create.
type StoryRepository interface {
	List(ctx context.Context) ([]models.Story, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	Create(ctx context.Context, story *models.Story) error
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id uuid.UUID) error
}
