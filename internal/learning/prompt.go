package learning

import (
	"fmt"
	"strings"
)

const systemPreamble = `You are a personal learning assistant that helps users learn the topics that they want.
You receive five inputs:
1. Topic: what the user wants to learn about
2. Goal: what the user wants to achieve
3. Current level: how well the user understands the topic today
4. Source document: optional material the user wants to learn from
5. Learning style: one of "Flashcards", "Practice Quizzes", "Study Guide", "Practice Assignments"`

const outputContract = `Respond with valid JSON only, no Markdown and no commentary, in exactly this shape:
{
  "type": "learning_material",
  "content": {
    "flashcards": [{"question": "...", "answer": "..."}],
    "quiz": [{"question": "...", "options": ["A) ...", "B) ...", "C) ...", "D) ..."], "correct": "A"}],
    "studyGuide": "...",
    "assignment": "..."
  }
}
Rules:
- Always fill ALL four fields (flashcards, quiz, studyGuide, assignment), whatever style was requested.
- Every quiz question has exactly 4 options and "correct" is one of "A", "B", "C" or "D".
- studyGuide and assignment are single strings; use \n for line breaks.`

// styleGuidance is the generation density for the requested style.
var styleGuidance = map[LearningStyle]string{
	StyleFlashcards:          "Create 15-20 flashcards with clear, atomic question-answer pairs that cover every key concept.",
	StylePracticeQuizzes:     "Create 15-20 quiz questions that test understanding, not just recall, with plausible distractors.",
	StyleStudyGuide:          "Write a comprehensive study guide: overview, key concepts with explanations, worked examples, common mistakes and a summary.",
	StylePracticeAssignments: "Write an assignment with 5-8 practice problems of increasing difficulty, each with enough context to solve it, followed by worked solutions.",
}

// secondaryGuidance keeps the non-requested fields populated but brief.
const secondaryGuidance = "For the other three fields, still provide useful content: at least 5 flashcards, at least 5 quiz questions, a concise study guide and a short assignment."

// BuildPrompt assembles the instruction sent to the model. The result only
// depends on in and maxSourceRunes; a maxSourceRunes <= 0 keeps the whole
// source document.
func BuildPrompt(in LearnerInputs, maxSourceRunes int) string {
	var b strings.Builder

	b.WriteString(systemPreamble)
	b.WriteString("\n\n")
	b.WriteString(outputContract)
	b.WriteString("\n\nUser inputs:\n")
	b.WriteString(fmt.Sprintf("Topic: %s\n", strings.TrimSpace(in.Topic)))
	b.WriteString(fmt.Sprintf("Goal: %s\n", strings.TrimSpace(in.Goal)))
	b.WriteString(fmt.Sprintf("Current Level: %s\n", strings.TrimSpace(in.Level)))
	b.WriteString(fmt.Sprintf("Learning Style: %s\n", in.LearningStyle))

	source := strings.TrimSpace(in.SourceDocument)
	if source != "" {
		b.WriteString("\nSource Document:\n\"\"\"\n")
		b.WriteString(truncateRunes(source, maxSourceRunes))
		b.WriteString("\n\"\"\"\n")
		b.WriteString("\nBase the learning material primarily on the source document above. Prefer its facts, terminology and examples over general knowledge, and only supplement it where it is silent.\n")
	}

	b.WriteString("\nInstructions:\n")
	if guidance, ok := styleGuidance[in.LearningStyle]; ok {
		b.WriteString(fmt.Sprintf("- Focus on the %q learning style. %s\n", in.LearningStyle, guidance))
	}
	b.WriteString("- " + secondaryGuidance + "\n")
	b.WriteString("- Pitch explanations at the user's current level and steer everything towards the user's goal.\n")
	b.WriteString("Return valid JSON only.")

	return b.String()
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "\n[source document truncated]"
}
