package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/models"
	"storyweaver-server/internal/repository"
	"storyweaver-server/pkg/storylock"
)

// NarrativeGateway abstracts chapter generation so the story engine can be
// tested without a live model.
type NarrativeGateway interface {
	GenerateOpening(ctx context.Context, req ai.OpeningRequest) (*ai.OpeningResult, error)
	GenerateNext(ctx context.Context, req ai.NextChapterRequest) (*ai.NextChapterResult, error)
}

// StoryService определяет интерфейс для бизнес-логики историй.
type StoryService interface {
	ListStories(ctx context.Context) ([]models.Story, error)
	GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	CreateStory(ctx context.Context, params models.CreateStoryParams) (*models.Story, error)
	AdvanceStory(ctx context.Context, id uuid.UUID, choice string) (*models.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID) error
}

type storyServiceImpl struct {
	stories  repository.StoryRepository
	profiles repository.ProfileRepository
	gateway  NarrativeGateway
	guard    *storylock.Guard
	logger   *zap.Logger
}

// NewStoryService создает новый экземпляр сервиса историй.
func NewStoryService(
	stories repository.StoryRepository,
	profiles repository.ProfileRepository,
	gateway NarrativeGateway,
	guard *storylock.Guard,
	logger *zap.Logger,
) StoryService {
	return &storyServiceImpl{
		stories:  stories,
		profiles: profiles,
		gateway:  gateway,
		guard:    guard,
		logger:   logger.Named("StoryService"),
	}
}

// ListStories returns the story shelf ordered by most recently updated.
// A storage failure degrades to an empty shelf, same as the profile list.
func (s *storyServiceImpl) ListStories(ctx context.Context) ([]models.Story, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list stories, degrading to empty list", zap.Error(err))
		return []models.Story{}, nil
	}
	return stories, nil
}

func (s *storyServiceImpl) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return s.stories.GetByID(ctx, id)
}

// CreateStory validates the setup, optionally fills unset fields from a
// reader profile, generates the opening chapter and persists the new story.
// Nothing is written if generation fails.
func (s *storyServiceImpl) CreateStory(ctx context.Context, params models.CreateStoryParams) (*models.Story, error) {
	hero := strings.TrimSpace(params.Hero)
	setting := strings.TrimSpace(params.Setting)
	// Limits are in characters, not bytes.
	if n := utf8.RuneCountInString(hero); n < models.MinHeroLen || n > models.MaxHeroLen {
		return nil, fmt.Errorf("%w: hero must be between %d and %d characters",
			models.ErrValidation, models.MinHeroLen, models.MaxHeroLen)
	}
	if n := utf8.RuneCountInString(setting); n < models.MinSettingLen || n > models.MaxSettingLen {
		return nil, fmt.Errorf("%w: setting must be between %d and %d characters",
			models.ErrValidation, models.MinSettingLen, models.MaxSettingLen)
	}

	age := params.Age
	readingLevel := params.ReadingLevel
	theme := params.Theme
	voice := params.Voice
	profileID := params.ProfileID

	// A profile only supplies defaults for fields the request left unset.
	// An unknown profile id is tolerated: the story is simply unlinked.
	if profileID != nil {
		profile, err := s.profiles.GetByID(ctx, *profileID)
		if err != nil {
			if !isNotFound(err) {
				return nil, err
			}
			s.logger.Warn("Story references unknown profile, creating unlinked",
				zap.String("profileID", profileID.String()))
			profileID = nil
		} else {
			if age == 0 {
				age = profile.Age
			}
			if readingLevel == 0 {
				readingLevel = profile.ReadingLevel
			}
			if voice == "" {
				voice = profile.Voice
			}
			if theme == "" && len(profile.PreferredThemes) > 0 {
				theme = profile.PreferredThemes[0]
			}
		}
	}

	if age != 0 {
		if err := validateAge(age); err != nil {
			return nil, err
		}
	}
	if readingLevel != 0 {
		if err := validateReadingLevel(readingLevel); err != nil {
			return nil, err
		}
	}
	if theme != "" && !models.IsKnownTheme(theme) {
		return nil, fmt.Errorf("%w: unknown theme %q", models.ErrValidation, theme)
	}
	if voice != "" && !models.IsKnownVoice(voice) {
		voice = models.DefaultVoice
	}

	opening, err := s.gateway.GenerateOpening(ctx, ai.OpeningRequest{
		Hero:         hero,
		Setting:      setting,
		Theme:        theme,
		Age:          age,
		ReadingLevel: readingLevel,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	story := &models.Story{
		ID:           uuid.New(),
		Hero:         hero,
		Setting:      setting,
		Age:          age,
		ReadingLevel: readingLevel,
		Theme:        theme,
		Voice:        voice,
		ProfileID:    profileID,
		Chapters: []models.StoryChapter{
			{
				ID:          uuid.New(),
				ChapterText: opening.OpeningText,
				ChoiceMade:  models.ChoiceBeginning,
			},
		},
		CurrentChoices: []string{opening.ChoiceA, opening.ChoiceB},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("Story created",
		zap.String("storyID", story.ID.String()),
		zap.String("hero", hero))
	return story, nil
}

// AdvanceStory appends the next chapter for the chosen branch. Chapters are
// append-only: a story is loaded, extended and written back in full, and a
// generation failure leaves storage untouched.
func (s *storyServiceImpl) AdvanceStory(ctx context.Context, id uuid.UUID, choice string) (*models.Story, error) {
	// One generation per story at a time. The guard is taken before the story
	// is loaded so a stalled request cannot write back a chapter log it read
	// before another generation completed.
	if !s.guard.TryAcquire(id) {
		return nil, fmt.Errorf("%w: story %s", models.ErrGenerationInProgress, id)
	}
	defer s.guard.Release(id)

	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// An empty choice is a no-op: return the story as it is.
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return story, nil
	}

	if story.IsConcluded() {
		return nil, fmt.Errorf("%w: story %s has concluded", models.ErrStoryConcluded, id)
	}

	result, err := s.gateway.GenerateNext(ctx, ai.NextChapterRequest{
		Hero:           story.Hero,
		Setting:        story.Setting,
		Theme:          story.Theme,
		Age:            story.Age,
		ReadingLevel:   story.ReadingLevel,
		PriorNarrative: buildPriorNarrative(story.Chapters),
		LastChoice:     choice,
	})
	if err != nil {
		return nil, err
	}

	story.Chapters = append(story.Chapters, models.StoryChapter{
		ID:          uuid.New(),
		ChapterText: result.NextText,
		ChoiceMade:  choice,
	})

	// The story concludes when the model says so, or when it fails to offer
	// exactly two onward choices. Whitespace-only choices count as missing.
	choiceA := strings.TrimSpace(result.ChoiceA)
	choiceB := strings.TrimSpace(result.ChoiceB)
	if result.IsEnding || choiceA == "" || choiceB == "" {
		story.CurrentChoices = []string{}
	} else {
		story.CurrentChoices = []string{choiceA, choiceB}
	}
	story.UpdatedAt = time.Now().UTC()

	if err := s.stories.Update(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("Story advanced",
		zap.String("storyID", id.String()),
		zap.Int("chapters", len(story.Chapters)),
		zap.Bool("concluded", story.IsConcluded()))
	return story, nil
}

// DeleteStory removes a story; deleting a missing story is a no-op.
func (s *storyServiceImpl) DeleteStory(ctx context.Context, id uuid.UUID) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	s.logger.Info("Story deleted", zap.String("storyID", id.String()))
	return nil
}

// buildPriorNarrative flattens the chapter history into the transcript format
// the continuation prompt expects.
func buildPriorNarrative(chapters []models.StoryChapter) string {
	parts := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		parts = append(parts, fmt.Sprintf("Choice: %s\n%s", ch.ChoiceMade, ch.ChapterText))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
