package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOpeningInput(t *testing.T) {
	input := FormatOpeningInput(OpeningRequest{
		Hero:         "Luna the Fox",
		Setting:      "a moonlit forest",
		Theme:        "forest",
		Age:          7,
		ReadingLevel: 3,
	})

	assert.Contains(t, input, "Luna the Fox")
	assert.Contains(t, input, "a moonlit forest")
	assert.Contains(t, input, "forest")
	assert.Contains(t, input, "7")
}

func TestFormatContinuationInput(t *testing.T) {
	input := FormatContinuationInput(NextChapterRequest{
		Hero:           "Luna",
		Setting:        "a cave",
		PriorNarrative: "Choice: The beginning\nYou found a cave.",
		LastChoice:     "Enter",
	})

	assert.Contains(t, input, "Choice: The beginning")
	assert.Contains(t, input, "Enter")
}

func TestFormatDefinitionInputOmitsZeroAge(t *testing.T) {
	input := FormatDefinitionInput(DefinitionRequest{Word: "dinosaur"})
	assert.Contains(t, input, "dinosaur")
	assert.NotContains(t, input, "Age")
}
