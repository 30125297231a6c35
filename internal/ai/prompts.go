package ai

import (
	"fmt"
	"strings"
)

// System prompts for the three generation operations. Each one pins the model
// to a single JSON object with an exact set of keys; the parsers reject
// anything that deviates from that shape.

const openingSystemPrompt = `You are a creative storyteller, crafting 'Choose Your Own Adventure' stories for children.

Write the opening chapter of a brand new story. The chapter must include the hero and the setting provided by the user, and end at a moment where the reader has to make a decision.

Tailor vocabulary and sentence structure to the child's age and reading level when they are provided (reading level 1 is easiest, 5 is most advanced).

You MUST respond with a single valid JSON object and nothing else. The object must have exactly these keys:
{
  "openingText": "the opening chapter of the story",
  "choiceA": "the first choice",
  "choiceB": "the second choice"
}

Choices must be very short, no more than 5 words each, and must lead to clearly different story outcomes.`

const continuationSystemPrompt = `You are a creative storyteller, crafting 'Choose Your Own Adventure' stories for children.

Continue the story based on the previous story, the reader's last choice, the hero, and the setting. Try to include the hero and setting in the generated chapter.

Tailor vocabulary and sentence structure to the child's age and reading level when they are provided (reading level 1 is easiest, 5 is most advanced).

You MUST respond with a single valid JSON object and nothing else. The object must have exactly these keys:
{
  "nextText": "the next chapter of the story",
  "choiceA": "the first choice",
  "choiceB": "the second choice",
  "isEnding": false
}

Choices must be very short, no more than 5 words each. Make sure the choices are very different from each other and will lead to different story outcomes.

If the story has reached a natural, satisfying conclusion, set "isEnding" to true and leave both choices as empty strings.`

const definitionSystemPrompt = `You are a helpful assistant for children.

A child has asked for the definition of a word they read in a story. Provide a very short and simple definition that a child of the given age can easily understand, no more than one or two simple sentences. Do not use the word itself inside the definition.

Also provide a simple, kid-friendly phonetic pronunciation for the word. For example: "dinosaur" becomes "dy-no-sore".

You MUST respond with a single valid JSON object and nothing else. The object must have exactly these keys:
{
  "definition": "the simple definition",
  "pronunciation": "the phonetic pronunciation"
}`

// FormatOpeningInput formats the user message for the opening prompt.
func FormatOpeningInput(req OpeningRequest) string {
	var sb strings.Builder

	sb.WriteString("Hero:\n")
	sb.WriteString(req.Hero)
	sb.WriteString("\n\nSetting:\n")
	sb.WriteString(req.Setting)
	sb.WriteString("\n")
	if req.Theme != "" {
		sb.WriteString(fmt.Sprintf("\nTheme: %s\n", req.Theme))
	}
	writeReaderHints(&sb, req.Age, req.ReadingLevel)

	sb.WriteString("\nTask:\nWrite the opening chapter and two choices for the reader to continue the story.")

	return strings.TrimSpace(sb.String())
}

// FormatContinuationInput formats the user message for the continuation prompt.
func FormatContinuationInput(req NextChapterRequest) string {
	var sb strings.Builder

	sb.WriteString("Previous Story:\n")
	if req.PriorNarrative != "" {
		sb.WriteString(req.PriorNarrative)
	} else {
		sb.WriteString("(The story has not started yet)")
	}
	sb.WriteString("\n\nLast Choice:\n")
	sb.WriteString(req.LastChoice)
	sb.WriteString("\n\nHero:\n")
	sb.WriteString(req.Hero)
	sb.WriteString("\n\nSetting:\n")
	sb.WriteString(req.Setting)
	sb.WriteString("\n")
	if req.Theme != "" {
		sb.WriteString(fmt.Sprintf("\nTheme: %s\n", req.Theme))
	}
	writeReaderHints(&sb, req.Age, req.ReadingLevel)

	sb.WriteString("\nTask:\nWrite the next chapter of the story and two choices for the reader to continue.")

	return strings.TrimSpace(sb.String())
}

// FormatDefinitionInput formats the user message for the word-definition prompt.
func FormatDefinitionInput(req DefinitionRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Word: %q\n", req.Word))
	if req.Context != "" {
		sb.WriteString(fmt.Sprintf("Context: %q\n", req.Context))
	}
	if req.Age > 0 {
		sb.WriteString(fmt.Sprintf("Child's age: %d\n", req.Age))
	}

	return strings.TrimSpace(sb.String())
}

func writeReaderHints(sb *strings.Builder, age, readingLevel int) {
	if age > 0 {
		sb.WriteString(fmt.Sprintf("\nChild's age: %d\n", age))
	}
	if readingLevel > 0 {
		sb.WriteString(fmt.Sprintf("Reading level: %d (1 is easiest, 5 is most advanced)\n", readingLevel))
	}
}
