package learning

import "time"

// LearningStyle is one of the four content formats a learner can ask for.
type LearningStyle string

const (
	StyleFlashcards          LearningStyle = "Flashcards"
	StylePracticeQuizzes     LearningStyle = "Practice Quizzes"
	StyleStudyGuide          LearningStyle = "Study Guide"
	StylePracticeAssignments LearningStyle = "Practice Assignments"
)

// Styles lists the learning styles in display order.
var Styles = []LearningStyle{
	StyleFlashcards,
	StylePracticeQuizzes,
	StyleStudyGuide,
	StylePracticeAssignments,
}

// LearnerInputs is what a learner submits to request material.
type LearnerInputs struct {
	Topic          string        `json:"topic"`
	Goal           string        `json:"goal"`
	Level          string        `json:"level"`
	LearningStyle  LearningStyle `json:"learningStyle"`
	SourceDocument string        `json:"sourceDocument,omitempty"`
}

// Flashcard is a single question/answer card.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is a multiple-choice question with exactly four options.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options" jsonschema:"minItems=4,maxItems=4"`
	Correct  string   `json:"correct" jsonschema:"enum=A,enum=B,enum=C,enum=D"`
}

// Material is the normalized learning content. All four fields are always
// present; the slices are never nil once a Material leaves this package.
type Material struct {
	Flashcards []Flashcard    `json:"flashcards"`
	Quiz       []QuizQuestion `json:"quiz"`
	StudyGuide string         `json:"studyGuide"`
	Assignment string         `json:"assignment"`
}

// IsEmpty reports whether no field carries content.
func (m Material) IsEmpty() bool {
	return len(m.Flashcards) == 0 && len(m.Quiz) == 0 && m.StudyGuide == "" && m.Assignment == ""
}

func (m Material) withDefaults() Material {
	if m.Flashcards == nil {
		m.Flashcards = []Flashcard{}
	}
	if m.Quiz == nil {
		m.Quiz = []QuizQuestion{}
	}
	return m
}

// Stage records which recovery step produced a Material.
type Stage string

const (
	StageDirect        Stage = "direct"
	StageRepaired      Stage = "repaired"
	StagePartial       Stage = "partial"
	StageFallback      Stage = "fallback"
	StageUpstreamError Stage = "upstream_error"
)

// MaterialType is the envelope type the model is asked to emit.
const MaterialType = "learning_material"

// Generated is a normalized Material stamped with its generation time.
// Error is set only when the model call itself failed.
type Generated struct {
	Type      string    `json:"type"`
	Content   Material  `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Error     bool      `json:"error,omitempty"`
	Stage     Stage     `json:"stage"`
}
