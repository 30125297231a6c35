package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/mocks"
	"storyweaver-server/internal/models"
	"storyweaver-server/internal/service"
	"storyweaver-server/pkg/storylock"
)

func newTestStoryService(t *testing.T) (service.StoryService, *mocks.MockStoryRepository, *mocks.MockProfileRepository, *mocks.MockNarrativeGateway, *storylock.Guard) {
	t.Helper()
	storyRepo := mocks.NewMockStoryRepository(t)
	profileRepo := mocks.NewMockProfileRepository(t)
	gateway := mocks.NewMockNarrativeGateway(t)
	guard := storylock.New()
	svc := service.NewStoryService(storyRepo, profileRepo, gateway, guard, zap.NewNop())
	return svc, storyRepo, profileRepo, gateway, guard
}

func TestCreateStory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		gateway.On("GenerateOpening", ctx, ai.OpeningRequest{
			Hero:    "Luna the Fox",
			Setting: "a moonlit forest",
		}).Return(&ai.OpeningResult{
			OpeningText: "Luna crept between the silver trees.",
			ChoiceA:     "Follow the light",
			ChoiceB:     "Climb a tree",
		}, nil).Once()
		storyRepo.On("Create", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

		story, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "Luna the Fox",
			Setting: "a moonlit forest",
		})

		require.NoError(t, err)
		require.NotNil(t, story)
		require.Len(t, story.Chapters, 1)
		assert.Equal(t, models.ChoiceBeginning, story.Chapters[0].ChoiceMade)
		assert.Equal(t, "Luna crept between the silver trees.", story.Chapters[0].ChapterText)
		assert.Equal(t, []string{"Follow the light", "Climb a tree"}, story.CurrentChoices)
		assert.False(t, story.IsConcluded())
		storyRepo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("HeroAtMinimumLength", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		gateway.On("GenerateOpening", ctx, mock.Anything).Return(&ai.OpeningResult{
			OpeningText: "Al set out at dawn.",
			ChoiceA:     "Go left",
			ChoiceB:     "Go right",
		}, nil).Once()
		storyRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		story, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "Al",
			Setting: "a sunny meadow",
		})

		require.NoError(t, err)
		assert.Equal(t, "Al", story.Hero)
	})

	t.Run("CyrillicSettingWithinCharacterLimit", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		// 120 Cyrillic characters occupy 240 bytes; the limit counts
		// characters, not bytes.
		setting := strings.Repeat("л", 120)
		gateway.On("GenerateOpening", ctx, mock.Anything).Return(&ai.OpeningResult{
			OpeningText: "Мира шагнула в туман.",
			ChoiceA:     "Идти дальше",
			ChoiceB:     "Позвать сову",
		}, nil).Once()
		storyRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		story, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "Мира",
			Setting: setting,
		})

		require.NoError(t, err)
		assert.Equal(t, setting, story.Setting)
	})

	t.Run("HeroTooShort", func(t *testing.T) {
		svc, _, _, _, _ := newTestStoryService(t)

		_, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "A",
			Setting: "a sunny meadow",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("SettingTooShort", func(t *testing.T) {
		svc, _, _, _, _ := newTestStoryService(t)

		_, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "Luna",
			Setting: "cave",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("ProfileFillsUnsetFields", func(t *testing.T) {
		svc, storyRepo, profileRepo, gateway, _ := newTestStoryService(t)

		profileID := uuid.New()
		profileRepo.On("GetByID", ctx, profileID).Return(&models.Profile{
			ID:              profileID,
			Name:            "Mia",
			Age:             7,
			ReadingLevel:    3,
			PreferredThemes: []string{"space"},
			Voice:           "Bella",
		}, nil).Once()
		gateway.On("GenerateOpening", ctx, ai.OpeningRequest{
			Hero:         "Captain Mia",
			Setting:      "a shimmering space station",
			Theme:        "space",
			Age:          7,
			ReadingLevel: 3,
		}).Return(&ai.OpeningResult{
			OpeningText: "Mia floated past the porthole.",
			ChoiceA:     "Open the hatch",
			ChoiceB:     "Call the robot",
		}, nil).Once()
		storyRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		story, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:      "Captain Mia",
			Setting:   "a shimmering space station",
			ProfileID: &profileID,
		})

		require.NoError(t, err)
		assert.Equal(t, 7, story.Age)
		assert.Equal(t, 3, story.ReadingLevel)
		assert.Equal(t, "space", story.Theme)
		assert.Equal(t, "Bella", story.Voice)
		require.NotNil(t, story.ProfileID)
		assert.Equal(t, profileID, *story.ProfileID)
	})

	t.Run("UnknownProfileCreatesUnlinkedStory", func(t *testing.T) {
		svc, storyRepo, profileRepo, gateway, _ := newTestStoryService(t)

		profileID := uuid.New()
		profileRepo.On("GetByID", ctx, profileID).Return(nil, models.ErrNotFound).Once()
		gateway.On("GenerateOpening", ctx, mock.Anything).Return(&ai.OpeningResult{
			OpeningText: "The journey began.",
			ChoiceA:     "Walk north",
			ChoiceB:     "Walk south",
		}, nil).Once()
		storyRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		story, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:      "Luna",
			Setting:   "a windswept plain",
			ProfileID: &profileID,
		})

		require.NoError(t, err)
		assert.Nil(t, story.ProfileID)
	})

	t.Run("GenerationFailurePersistsNothing", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		gateway.On("GenerateOpening", ctx, mock.Anything).
			Return(nil, fmt.Errorf("%w: model returned garbage", models.ErrGeneration)).Once()

		_, err := svc.CreateStory(ctx, models.CreateStoryParams{
			Hero:    "Luna",
			Setting: "a moonlit forest",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrGeneration)
		storyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAdvanceStory(t *testing.T) {
	ctx := context.Background()

	makeStory := func() *models.Story {
		return &models.Story{
			ID:      uuid.New(),
			Hero:    "Luna the Fox",
			Setting: "a moonlit forest",
			Chapters: []models.StoryChapter{
				{
					ID:          uuid.New(),
					ChapterText: "You found a cave.",
					ChoiceMade:  models.ChoiceBeginning,
				},
			},
			CurrentChoices: []string{"Enter", "Leave"},
		}
	}

	t.Run("AppendsChapterAndReplacesChoices", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		gateway.On("GenerateNext", ctx, ai.NextChapterRequest{
			Hero:           "Luna the Fox",
			Setting:        "a moonlit forest",
			PriorNarrative: "Choice: The beginning\nYou found a cave.",
			LastChoice:     "Enter",
		}).Return(&ai.NextChapterResult{
			NextText: "Inside, glowworms lit the walls.",
			ChoiceA:  "Touch a glowworm",
			ChoiceB:  "Go deeper",
		}, nil).Once()
		storyRepo.On("Update", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

		updated, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.NoError(t, err)
		require.Len(t, updated.Chapters, 2)
		assert.Equal(t, "Enter", updated.Chapters[1].ChoiceMade)
		assert.Equal(t, "Inside, glowworms lit the walls.", updated.Chapters[1].ChapterText)
		assert.Equal(t, []string{"Touch a glowworm", "Go deeper"}, updated.CurrentChoices)
	})

	t.Run("PriorNarrativeJoinsChapters", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		story.Chapters = append(story.Chapters, models.StoryChapter{
			ID:          uuid.New(),
			ChapterText: "Inside, glowworms lit the walls.",
			ChoiceMade:  "Enter",
		})

		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		gateway.On("GenerateNext", ctx, mock.MatchedBy(func(req ai.NextChapterRequest) bool {
			return req.PriorNarrative == "Choice: The beginning\nYou found a cave.\n\n---\n\nChoice: Enter\nInside, glowworms lit the walls." &&
				req.LastChoice == "Go deeper"
		})).Return(&ai.NextChapterResult{
			NextText: "The tunnel opened into a crystal hall.",
			ChoiceA:  "Sing",
			ChoiceB:  "Listen",
		}, nil).Once()
		storyRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		_, err := svc.AdvanceStory(ctx, story.ID, "Go deeper")
		require.NoError(t, err)
		gateway.AssertExpectations(t)
	})

	t.Run("EndingClearsChoices", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		gateway.On("GenerateNext", ctx, mock.Anything).Return(&ai.NextChapterResult{
			NextText: "And Luna slept, safe at last. The end.",
			IsEnding: true,
		}, nil).Once()
		storyRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.NoError(t, err)
		assert.Empty(t, updated.CurrentChoices)
		assert.True(t, updated.IsConcluded())
	})

	t.Run("MissingChoiceTreatedAsEnding", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		// The model forgot the second choice: the story closes rather than
		// presenting a single branch.
		gateway.On("GenerateNext", ctx, mock.Anything).Return(&ai.NextChapterResult{
			NextText: "A door appeared.",
			ChoiceA:  "Open it",
		}, nil).Once()
		storyRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.NoError(t, err)
		assert.True(t, updated.IsConcluded())
	})

	t.Run("WhitespaceChoiceTreatedAsEnding", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		// Blank-padded choices are as useless as absent ones.
		gateway.On("GenerateNext", ctx, mock.Anything).Return(&ai.NextChapterResult{
			NextText: "The cave fell silent.",
			ChoiceA:  "Wait",
			ChoiceB:  "   ",
		}, nil).Once()
		storyRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.NoError(t, err)
		assert.True(t, updated.IsConcluded())
	})

	t.Run("ConcludedStoryRejected", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		story.CurrentChoices = []string{}
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()

		_, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrStoryConcluded)
		gateway.AssertNotCalled(t, "GenerateNext", mock.Anything, mock.Anything)
	})

	t.Run("EmptyChoiceIsNoOp", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()

		updated, err := svc.AdvanceStory(ctx, story.ID, "   ")

		require.NoError(t, err)
		assert.Len(t, updated.Chapters, 1)
		gateway.AssertNotCalled(t, "GenerateNext", mock.Anything, mock.Anything)
		storyRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("UnknownStory", func(t *testing.T) {
		svc, storyRepo, _, _, _ := newTestStoryService(t)

		id := uuid.New()
		storyRepo.On("GetByID", ctx, id).Return(nil, models.ErrNotFound).Once()

		_, err := svc.AdvanceStory(ctx, id, "Enter")

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GenerationFailureLeavesStorageUntouched", func(t *testing.T) {
		svc, storyRepo, _, gateway, _ := newTestStoryService(t)

		story := makeStory()
		storyRepo.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		gateway.On("GenerateNext", ctx, mock.Anything).
			Return(nil, errors.New("upstream timeout")).Once()

		_, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.Error(t, err)
		storyRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentGenerationRejected", func(t *testing.T) {
		svc, storyRepo, _, _, guard := newTestStoryService(t)

		story := makeStory()
		require.True(t, guard.TryAcquire(story.ID))
		defer guard.Release(story.ID)

		_, err := svc.AdvanceStory(ctx, story.ID, "Enter")

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrGenerationInProgress)
		// Busy stories are rejected before touching storage, so the rejected
		// request cannot have read a state it might later write back.
		storyRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestListStories(t *testing.T) {
	ctx := context.Background()

	t.Run("DegradesToEmptyOnRepositoryError", func(t *testing.T) {
		svc, storyRepo, _, _, _ := newTestStoryService(t)

		storyRepo.On("List", ctx).Return(nil, errors.New("connection refused")).Once()

		stories, err := svc.ListStories(ctx)

		require.NoError(t, err)
		assert.Empty(t, stories)
	})
}

func TestDeleteStory(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingStoryIsNoOp", func(t *testing.T) {
		svc, storyRepo, _, _, _ := newTestStoryService(t)

		id := uuid.New()
		storyRepo.On("Delete", ctx, id).Return(models.ErrNotFound).Once()

		err := svc.DeleteStory(ctx, id)
		require.NoError(t, err)
	})
}
