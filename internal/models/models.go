package models

import (
	"time"

	"github.com/google/uuid"
)

// ChoiceBeginning is the sentinel choiceMade value of a story's first chapter.
const ChoiceBeginning = "The beginning"

// Field constraints for profiles and stories.
const (
	MinNameLen      = 2
	MaxNameLen      = 50
	MinAge          = 3
	MaxAge          = 12
	MinReadingLevel = 1
	MaxReadingLevel = 5
	MinHeroLen      = 2
	MaxHeroLen      = 50
	MinSettingLen   = 5
	MaxSettingLen   = 200
)

// Profile is a saved reader configuration. Profiles are created and edited from
// the settings surface and only ever read by the story engine.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	ReadingLevel    int       `json:"readingLevel"`
	PreferredThemes []string  `json:"preferredThemes"`
	Voice           string    `json:"voice"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StoryChapter is one generated narrative segment plus the choice that produced it.
type StoryChapter struct {
	ID          uuid.UUID `json:"id"`
	ChapterText string    `json:"chapterText"`
	ChoiceMade  string    `json:"choiceMade"`
}

// Story is one interactive-fiction session. Chapters form an append-only log in
// narrative order; CurrentChoices holds exactly the two forward branches offered
// after the latest chapter, or is empty once the story has concluded.
type Story struct {
	ID             uuid.UUID      `json:"id"`
	Hero           string         `json:"hero"`
	Setting        string         `json:"setting"`
	Age            int            `json:"age"`
	ReadingLevel   int            `json:"readingLevel"`
	Theme          string         `json:"theme,omitempty"`
	Voice          string         `json:"voice,omitempty"`
	ProfileID      *uuid.UUID     `json:"profileId,omitempty"`
	Chapters       []StoryChapter `json:"chapters"`
	CurrentChoices []string       `json:"currentChoices"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// IsConcluded reports whether the story is in its terminal state.
func (s *Story) IsConcluded() bool {
	return len(s.CurrentChoices) == 0
}

// CreateProfileParams carries the fields of a profile creation request.
type CreateProfileParams struct {
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	ReadingLevel    int      `json:"readingLevel"`
	PreferredThemes []string `json:"preferredThemes"`
	Voice           string   `json:"voice"`
}

// UpdateProfileParams carries a partial profile edit. Pointers distinguish
// "leave unchanged" from an explicit new value.
type UpdateProfileParams struct {
	Name            *string   `json:"name"`
	Age             *int      `json:"age"`
	ReadingLevel    *int      `json:"readingLevel"`
	PreferredThemes *[]string `json:"preferredThemes"`
	Voice           *string   `json:"voice"`
}

// CreateStoryParams carries the fields of a story creation request. Age,
// ReadingLevel, Theme and Voice may be left zero when ProfileID is set, in
// which case they are copied from the referenced profile.
type CreateStoryParams struct {
	Hero         string     `json:"hero"`
	Setting      string     `json:"setting"`
	Age          int        `json:"age"`
	ReadingLevel int        `json:"readingLevel"`
	Theme        string     `json:"theme"`
	Voice        string     `json:"voice"`
	ProfileID    *uuid.UUID `json:"profileId"`
}
