package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	generateleadsummary "lead-summarizer/internal/workers/sales/generate-lead-summary"

	"github.com/spf13/cobra"
)

var generateInput string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Enrich a single lead from a JSON request file and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(generateInput)
		if err != nil {
			return err
		}

		input, err := generateleadsummary.ParseRequest(body)
		if err != nil {
			return err
		}

		p, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.Close()

		out, err := p.Handler.Execute(cmd.Context(), input)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	},
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return body, nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "-", "request JSON file, or - for stdin")
	rootCmd.AddCommand(generateCmd)
}
