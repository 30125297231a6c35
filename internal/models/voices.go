package models

import "sort"

// DefaultVoice is used whenever a profile or story does not name a voice.
const DefaultVoice = "Rachel"

// voiceIDs maps narration voice names to ElevenLabs voice identifiers.
var voiceIDs = map[string]string{
	"Rachel": "21m00Tcm4TlvDq8ikWAM",
	"Adam":   "pNInz6obpgDQGcFmaJgB",
	"Antoni": "ErXwobaYiN019PkySvjV",
	"Bella":  "EXAVITQu4vr4xnSDxMaL",
	"Domi":   "AZnzlk1XvdvUeBnXmlld",
	"Elli":   "MF3mGyEYCl7XYWbV9V6O",
}

// VoiceNames returns the catalog of selectable narration voices in a stable
// order.
func VoiceNames() []string {
	names := make([]string, 0, len(voiceIDs))
	for name := range voiceIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownVoice reports whether name belongs to the voice catalog.
func IsKnownVoice(name string) bool {
	_, ok := voiceIDs[name]
	return ok
}

// ResolveVoiceID returns the upstream voice identifier for name, falling back
// to the default voice for an empty or unknown name.
func ResolveVoiceID(name string) string {
	if id, ok := voiceIDs[name]; ok {
		return id
	}
	return voiceIDs[DefaultVoice]
}

// themeTags is the closed vocabulary of profile theme tags.
var themeTags = map[string]struct{}{
	"knight":   {},
	"pirate":   {},
	"princess": {},
	"space":    {},
	"forest":   {},
}

// ThemeNames returns the closed theme vocabulary in a stable order.
func ThemeNames() []string {
	tags := make([]string, 0, len(themeTags))
	for tag := range themeTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsKnownTheme reports whether tag belongs to the closed theme vocabulary.
func IsKnownTheme(tag string) bool {
	_, ok := themeTags[tag]
	return ok
}
