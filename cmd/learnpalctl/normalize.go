package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"learningpal/internal/learning"
)

func newNormalizeCmd() *cobra.Command {
	var maxClosers int
	cmd := &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Run raw model output through the normalizer and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			nz := learning.NewNormalizer(learning.WithMaxRepairClosers(maxClosers))
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(nz.Normalize(string(raw)))
		},
	}
	cmd.Flags().IntVar(&maxClosers, "max-closers", learning.DefaultMaxRepairClosers, "maximum closing brackets syntax repair may append")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return raw, nil
}
