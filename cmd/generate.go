/*
Copyright © 2026 StudyPup Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/studypup/studypup/internal/app"
	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/usecase"
)

// generateCmd runs the full pipeline over a file or stdin.
var generateCmd = &cobra.Command{
	Use:   "generate [file|-]",
	Short: "Run the content pipeline and print the resulting material set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		source, _ := cmd.Flags().GetString("source")
		methods, _ := cmd.Flags().GetStringSlice("methods")
		noAI, _ := cmd.Flags().GetBool("no-ai")

		content, err := readContentArg(cmd, args)
		if err != nil {
			return err
		}

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := container.Pipeline.Generate(cmd.Context(), &usecase.GenerateInput{
			OwnerID:    owner,
			Content:    content,
			SourceType: entity.ParseSourceType(source),
			Methods:    methods,
			UseAI:      !noAI,
		})
		if err != nil {
			return err
		}

		if result.GraphReused {
			fmt.Fprintln(cmd.ErrOrStderr(), "reused existing knowledge graph")
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.Materials)
	},
}

func readContentArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("owner", "local", "owner id materials are stored under")
	generateCmd.Flags().String("source", "text", "source type: lecture, text, upload, manual")
	generateCmd.Flags().StringSlice("methods", nil, "material types to generate (default: all)")
	generateCmd.Flags().Bool("no-ai", false, "skip AI generation and use templates directly")
}
