package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"learningpal/internal/learning"
)

func newPromptCmd() *cobra.Command {
	var (
		in         learning.LearnerInputs
		style      string
		sourceFile string
		maxSource  int
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent for the given learner inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := learning.ParseLearningStyle(style)
			if err != nil {
				return fmt.Errorf("%w: %q", err, style)
			}
			in.LearningStyle = parsed
			if sourceFile != "" {
				raw, err := readInput(cmd, []string{sourceFile})
				if err != nil {
					return err
				}
				in.SourceDocument = string(raw)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), learning.BuildPrompt(in, maxSource))
			return err
		},
	}
	cmd.Flags().StringVar(&in.Topic, "topic", "", "topic to learn")
	cmd.Flags().StringVar(&in.Goal, "goal", "", "learning goal")
	cmd.Flags().StringVar(&in.Level, "level", "Beginner", "current level")
	cmd.Flags().StringVar(&style, "style", string(learning.StyleFlashcards), "learning style")
	cmd.Flags().StringVar(&sourceFile, "source", "", "file with a source document")
	cmd.Flags().IntVar(&maxSource, "max-source-chars", 20000, "source document characters kept in the prompt")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}
