package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"storyweaver-server/internal/models"
)

// ParseOpening validates and decodes an opening-generation response.
func ParseOpening(data []byte) (*OpeningResult, error) {
	var result OpeningResult
	if err := decodeStrict(data, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse opening response: %v", models.ErrGeneration, err)
	}
	if strings.TrimSpace(result.OpeningText) == "" {
		return nil, fmt.Errorf("%w: opening response is missing openingText", models.ErrGeneration)
	}
	if strings.TrimSpace(result.ChoiceA) == "" || strings.TrimSpace(result.ChoiceB) == "" {
		return nil, fmt.Errorf("%w: opening response must offer two choices", models.ErrGeneration)
	}
	return &result, nil
}

// ParseNextChapter validates and decodes a continuation response. Choices may
// be empty when the generator marks the narrative as ended; the engine treats
// any response without two usable choices as closure.
func ParseNextChapter(data []byte) (*NextChapterResult, error) {
	var result NextChapterResult
	if err := decodeStrict(data, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse continuation response: %v", models.ErrGeneration, err)
	}
	if strings.TrimSpace(result.NextText) == "" {
		return nil, fmt.Errorf("%w: continuation response is missing nextText", models.ErrGeneration)
	}
	return &result, nil
}

// ParseDefinition validates and decodes a word-definition response.
func ParseDefinition(data []byte) (*DefinitionResult, error) {
	var result DefinitionResult
	if err := decodeStrict(data, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse definition response: %v", models.ErrGeneration, err)
	}
	if strings.TrimSpace(result.Definition) == "" {
		return nil, fmt.Errorf("%w: definition response is missing definition", models.ErrGeneration)
	}
	return &result, nil
}

// decodeStrict декодирует JSON-данные в out, запрещая неизвестные поля.
func decodeStrict(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(ExtractJSON(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// ExtractJSON strips a markdown code fence around a JSON payload. Models asked
// for raw JSON still occasionally wrap it in ```json blocks.
func ExtractJSON(data []byte) []byte {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return []byte(trimmed)
}
