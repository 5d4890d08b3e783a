package learning

// ParseFailureMaterial is returned when no field could be recovered from the
// model output. It satisfies the full shape so every view can render it.
func ParseFailureMaterial() Material {
	return Material{
		Flashcards: []Flashcard{{
			Question: "Why is there no material for this session?",
			Answer:   "The generated content could not be read. Please generate the material again.",
		}},
		Quiz: []QuizQuestion{{
			Question: "The learning material could not be generated. What should you do next?",
			Options: []string{
				"A) Try generating the material again",
				"B) Simplify the topic or goal",
				"C) Check back in a few minutes",
				"D) All of the above",
			},
			Correct: "D",
		}},
		StudyGuide: "We could not read the content returned for this request. Please try generating the material again.",
		Assignment: "No assignment is available because generation failed. Please try again.",
	}
}

// UpstreamFailureMaterial is returned when the model could not be reached.
func UpstreamFailureMaterial() Material {
	return Material{
		Flashcards: []Flashcard{{
			Question: "Error generating content",
			Answer:   "The content service could not be reached. Please try again later.",
		}},
		Quiz: []QuizQuestion{{
			Question: "Error generating quiz",
			Options: []string{
				"A) Please try again",
				"B) Contact support",
				"C) Check your connection",
				"D) All of the above",
			},
			Correct: "D",
		}},
		StudyGuide: "An error occurred while generating the study guide. Please try again.",
		Assignment: "An error occurred while generating the assignment. Please try again.",
	}
}
