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
var _ ProfileRepository = (*pgProfileRepository)(nil)

type pgProfileRepository struct {
	db     DBTX
	logger *zap.Logger
}

// NewPgProfileRepository создает репозиторий профилей поверх PostgreSQL.
func NewPgProfileRepository(db DBTX, logger *zap.Logger) ProfileRepository {
	return &pgProfileRepository{
		db:     db,
		logger: logger.Named("PgProfileRepo"),
	}
}

// profileRow mirrors the profiles table; preferred_themes is stored as JSONB.
type profileRow struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name"`
	Age             int       `db:"age"`
	ReadingLevel    int       `db:"reading_level"`
	PreferredThemes []byte    `db:"preferred_themes"`
	Voice           string    `db:"voice"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r profileRow) toModel() (models.Profile, error) {
	var themes []string
	if len(r.PreferredThemes) > 0 {
		if err := json.Unmarshal(r.PreferredThemes, &themes); err != nil {
			return models.Profile{}, fmt.Errorf("failed to decode preferred themes for profile %s: %w", r.ID, err)
		}
	}
	if themes == nil {
		themes = []string{}
	}
	return models.Profile{
		ID:              r.ID,
		Name:            r.Name,
		Age:             r.Age,
		ReadingLevel:    r.ReadingLevel,
		PreferredThemes: themes,
		Voice:           r.Voice,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func (r *pgProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `
        SELECT id, name, age, reading_level, preferred_themes, voice, created_at, updated_at
        FROM profiles
        ORDER BY created_at ASC
    `
	var rows []profileRow
	if err := pgxscan.Select(ctx, r.db, &rows, query); err != nil {
		r.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка профилей: %w", err)
	}

	profiles := make([]models.Profile, 0, len(rows))
	for _, row := range rows {
		profile, err := row.toModel()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r *pgProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
        SELECT id, name, age, reading_level, preferred_themes, voice, created_at, updated_at
        FROM profiles
        WHERE id = $1
    `
	var row profileRow
	logFields := []zap.Field{zap.String("profileID", id.String())}

	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Name, &row.Age, &row.ReadingLevel,
		&row.PreferredThemes, &row.Voice, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Profile not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get profile by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения профиля %s: %w", id, err)
	}

	profile, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *pgProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
        INSERT INTO profiles
            (id, name, age, reading_level, preferred_themes, voice, created_at, updated_at)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	logFields := []zap.Field{zap.String("profileID", profile.ID.String())}
	r.logger.Debug("Creating profile", logFields...)

	themes, err := json.Marshal(profile.PreferredThemes)
	if err != nil {
		return fmt.Errorf("failed to encode preferred themes: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Age,
		profile.ReadingLevel,
		themes,
		profile.Voice,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create profile", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания профиля: %w", err)
	}
	r.logger.Info("Profile created successfully", logFields...)
	return nil
}

func (r *pgProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
        UPDATE profiles
        SET name = $2, age = $3, reading_level = $4, preferred_themes = $5, voice = $6, updated_at = $7
        WHERE id = $1
    `
	logFields := []zap.Field{zap.String("profileID", profile.ID.String())}

	themes, err := json.Marshal(profile.PreferredThemes)
	if err != nil {
		return fmt.Errorf("failed to encode preferred themes: %w", err)
	}

	tag, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Age,
		profile.ReadingLevel,
		themes,
		profile.Voice,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления профиля %s: %w", profile.ID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Profile not found for update", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Profile updated successfully", logFields...)
	return nil
}

func (r *pgProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`
	logFields := []zap.Field{zap.String("profileID", id.String())}

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete profile", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка удаления профиля %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug("Profile not found for delete", logFields...)
		return models.ErrNotFound
	}
	r.logger.Info("Profile deleted successfully", logFields...)
	return nil
}
