package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
	"storyweaver-server/internal/repository"
)

// ProfileService определяет интерфейс для бизнес-логики профилей читателей.
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, params models.CreateProfileParams) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params models.UpdateProfileParams) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type profileServiceImpl struct {
	repo   repository.ProfileRepository
	logger *zap.Logger
}

// NewProfileService создает новый экземпляр сервиса профилей.
func NewProfileService(repo repository.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileServiceImpl{
		repo:   repo,
		logger: logger.Named("ProfileService"),
	}
}

// ListProfiles returns all profiles. A storage failure degrades to an empty
// shelf instead of an error so the reader-facing UI never breaks on listing.
func (s *profileServiceImpl) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list profiles, degrading to empty list", zap.Error(err))
		return []models.Profile{}, nil
	}
	return profiles, nil
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateProfile validates the submitted fields and persists a new profile.
// Service-level validation is the final guard: the handler layer may have its
// own checks, but nothing invalid gets past this point.
func (s *profileServiceImpl) CreateProfile(ctx context.Context, params models.CreateProfileParams) (*models.Profile, error) {
	name := strings.TrimSpace(params.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateAge(params.Age); err != nil {
		return nil, err
	}
	if err := validateReadingLevel(params.ReadingLevel); err != nil {
		return nil, err
	}
	themes, err := normalizeThemes(params.PreferredThemes)
	if err != nil {
		return nil, err
	}

	voice := params.Voice
	if voice == "" || !models.IsKnownVoice(voice) {
		voice = models.DefaultVoice
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:              uuid.New(),
		Name:            name,
		Age:             params.Age,
		ReadingLevel:    params.ReadingLevel,
		PreferredThemes: themes,
		Voice:           voice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Profile created", zap.String("profileID", profile.ID.String()))
	return profile, nil
}

// UpdateProfile применяет частичное обновление к существующему профилю.
// Updating a missing profile is a no-op rather than an error.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, params models.UpdateProfileParams) (*models.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug("Update of missing profile ignored", zap.String("profileID", id.String()))
			return nil, nil
		}
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		profile.Name = name
	}
	if params.Age != nil {
		if err := validateAge(*params.Age); err != nil {
			return nil, err
		}
		profile.Age = *params.Age
	}
	if params.ReadingLevel != nil {
		if err := validateReadingLevel(*params.ReadingLevel); err != nil {
			return nil, err
		}
		profile.ReadingLevel = *params.ReadingLevel
	}
	if params.PreferredThemes != nil {
		themes, err := normalizeThemes(*params.PreferredThemes)
		if err != nil {
			return nil, err
		}
		profile.PreferredThemes = themes
	}
	if params.Voice != nil {
		voice := *params.Voice
		if voice == "" || !models.IsKnownVoice(voice) {
			voice = models.DefaultVoice
		}
		profile.Voice = voice
	}

	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, profile); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile. Stories that referenced it keep their
// copied parameters and simply become unlinked; deleting a missing profile is
// a no-op.
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			s.logger.Debug("Delete of missing profile ignored", zap.String("profileID", id.String()))
			return nil
		}
		return err
	}
	s.logger.Info("Profile deleted", zap.String("profileID", id.String()))
	return nil
}

// Length limits are in characters, not bytes, so non-Latin names measure the
// same as Latin ones.
func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < models.MinNameLen || n > models.MaxNameLen {
		return fmt.Errorf("%w: name must be between %d and %d characters",
			models.ErrValidation, models.MinNameLen, models.MaxNameLen)
	}
	return nil
}

func validateAge(age int) error {
	if age < models.MinAge || age > models.MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d",
			models.ErrValidation, models.MinAge, models.MaxAge)
	}
	return nil
}

func validateReadingLevel(level int) error {
	if level < models.MinReadingLevel || level > models.MaxReadingLevel {
		return fmt.Errorf("%w: reading level must be between %d and %d",
			models.ErrValidation, models.MinReadingLevel, models.MaxReadingLevel)
	}
	return nil
}

// normalizeThemes checks every tag against the closed theme vocabulary and
// never returns nil, so the JSON shape stays a list.
func normalizeThemes(themes []string) ([]string, error) {
	out := make([]string, 0, len(themes))
	for _, theme := range themes {
		if !models.IsKnownTheme(theme) {
			return nil, fmt.Errorf("%w: unknown theme %q", models.ErrValidation, theme)
		}
		out = append(out, theme)
	}
	return out, nil
}
