package ai

// OpeningRequest carries the inputs for generating a story's first chapter.
// Age and ReadingLevel are optional tone/complexity hints; zero means absent.
type OpeningRequest struct {
	Hero         string
	Setting      string
	Theme        string
	Age          int
	ReadingLevel int
}

// OpeningResult is the validated shape of an opening-generation response.
type OpeningResult struct {
	OpeningText string `json:"openingText"`
	ChoiceA     string `json:"choiceA"`
	ChoiceB     string `json:"choiceB"`
}

// NextChapterRequest carries the inputs for a continuation step. PriorNarrative
// is the full concatenated story so far, LastChoice the branch the reader took.
type NextChapterRequest struct {
	Hero           string
	Setting        string
	Theme          string
	PriorNarrative string
	LastChoice     string
	Age            int
	ReadingLevel   int
}

// NextChapterResult is the validated shape of a continuation response.
// IsEnding is the explicit closure marker: when set, the generator considers
// the narrative finished and the choices are ignored.
type NextChapterResult struct {
	NextText string `json:"nextText"`
	ChoiceA  string `json:"choiceA"`
	ChoiceB  string `json:"choiceB"`
	IsEnding bool   `json:"isEnding"`
}

// DefinitionRequest carries a word lookup from the reader surface.
type DefinitionRequest struct {
	Word    string
	Context string
	Age     int
}

// DefinitionResult is the validated shape of a word-definition response.
type DefinitionResult struct {
	Definition    string `json:"definition"`
	Pronunciation string `json:"pronunciation"`
}
