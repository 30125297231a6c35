package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

// Compile-time check
var _ StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgStoryRepository создает репозиторий историй поверх PostgreSQL.
func NewPgStoryRepository(db DBTX, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

// storyRow mirrors the stories table; chapters and current_choices are JSONB.
type storyRow struct {
	ID             uuid.UUID  `db:"id"`
	Hero           string     `db:"hero"`
	Setting        string     `db:"setting"`
	Age            int        `db:"age"`
	ReadingLevel   int        `db:"reading_level"`
	Theme          *string    `db:"theme"`
	Voice          *string    `db:"voice"`
	ProfileID      *uuid.UUID `db:"profile_id"`
	Chapters       []byte     `db:"chapters"`
	CurrentChoices []byte     `db:"current_choices"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r storyRow) toModel() (models.Story, error) {
	var chapters []models.StoryChapter
	if err := json.Unmarshal(r.Chapters, &chapters); err != nil {
		return models.Story{}, fmt.Errorf("failed to decode chapters for story %s: %w", r.ID, err)
	}
	var choices []string
	if len(r.CurrentChoices) > 0 {
		if err := json.Unmarshal(r.CurrentChoices, &choices); err != nil {
			return models.Story{}, fmt.Errorf("failed to decode choices for story %s: %w", r.ID, err)
		}
	}
	if choices == nil {
		choices = []string{}
	}

	story := models.Story{
		ID:             r.ID,
		Hero:           r.Hero,
		Setting:        r.Setting,
		Age:            r.Age,
		ReadingLevel:   r.ReadingLevel,
		ProfileID:      r.ProfileID,
		Chapters:       chapters,
		CurrentChoices: choices,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Theme != nil {
		story.Theme = *r.Theme
	}
	if r.Voice != nil {
		story.Voice = *r.Voice
	}
	return story, nil
}

func (r *pgStoryRepository) List(ctx context.Context) ([]models.Story, error) {
	query := `
        SELECT id, hero, setting, age, reading_level, theme, voice, profile_id,
               chapters, current_choices, created_at, updated_at
        FROM stories
        ORDER BY updated_at DESC
    `
	var rows []storyRow
	if err := pgxscan.Select(ctx, r.db, &rows, query); err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка историй: %w", err)
	}

	stories := make([]models.Story, 0, len(rows))
	for _, row := range rows {
		story, err := row.toModel()
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	query := `
        SELECT id, hero, setting, age, reading_level, theme, voice, profile_id,
               chapters, current_choices, created_at, updated_at
        FROM stories
        WHERE id = $1
    `
	var row storyRow
	logFields := []zap.Field{zap.String("storyID", id.String())}

	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Hero, &row.Setting, &row.Age, &row.ReadingLevel,
		&row.Theme, &row.Voice, &row.ProfileID,
		&row.Chapters, &row.CurrentChoices, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Story not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения истории %s: %w", id, err)
	}

	story, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
        INSERT INTO stories
            (id, hero, setting, age, reading_level, theme, voice, profile_id,
             chapters, current_choices, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	logFields := []zap.Field{zap.String("storyID", story.ID.String())}
	r.logger.Debug("Creating story", logFields...)

	chapters, choices, err := encodeStoryState(story)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		story.ID,
		story.Hero,
		story.Setting,
		story.Age,
		story.ReadingLevel,
		nullIfEmpty(story.Theme),
		nullIfEmpty(story.Voice),
		story.ProfileID,
		chapters,
		choices,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания истории: %w", err)
	}
	r.logger.Info("Story created successfully", logFields...)
	return nil
}

// Update persists story progression: the chapter log, the offered choices and
// the updated_at stamp. Immutable columns are deliberately left out.
func (r *pgStoryRepository) Update(ctx context.Context, story *models.Story) error {
	query := `
        UPDATE stories
        SET chapters = $2, current_choices = $3, updated_at = $4
        WHERE id = $1
    `
	logFields := []zap.Field{
		zap.String("storyID", story.ID.String()),
		zap.Int("chapters", len(story.Chapters)),
	}

	chapters, choices, err := encodeStoryState(story)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, story.ID, chapters, choices, story.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления истории %s: %w", story.ID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for update", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Story updated successfully", logFields...)
	return nil
}

func (r *pgStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM stories WHERE id = $1`
	logFields := []zap.Field{zap.String("storyID", id.String())}

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления истории %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug("Story not found for delete", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Story deleted successfully", logFields...)
	return nil
}

func encodeStoryState(story *models.Story) (chapters, choices []byte, err error) {
	chapters, err = json.Marshal(story.Chapters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode chapters: %w", err)
	}
	currentChoices := story.CurrentChoices
	if currentChoices == nil {
		currentChoices = []string{}
	}
	choices, err = json.Marshal(currentChoices)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode choices: %w", err)
	}
	return chapters, choices, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
