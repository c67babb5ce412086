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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studypup/studypup/internal/app"
)

// importCmd restores an NDJSON backup with upsert semantics.
var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import an NDJSON backup of graphs and study materials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		input := args[0]
		gzipEnabled, _ := cmd.Flags().GetBool("gzip")
		if !gzipEnabled && input != "-" && strings.HasSuffix(strings.ToLower(input), ".gz") {
			gzipEnabled = true
		}

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		var (
			reader  io.Reader = cmd.InOrStdin()
			closers []func() error
		)
		if input != "-" {
			file, openErr := os.Open(input)
			if openErr != nil {
				return fmt.Errorf("open backup file: %w", openErr)
			}
			reader = file
			closers = append(closers, file.Close)
		}
		if gzipEnabled {
			gz, gzErr := gzip.NewReader(reader)
			if gzErr != nil {
				return fmt.Errorf("open gzip stream: %w", gzErr)
			}
			reader = gz
			closers = append([]func() error{gz.Close}, closers...)
		}
		defer func() {
			for _, closer := range closers {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		stats, err := container.Backup.Import(cmd.Context(), reader)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "imported %d graphs, %d material sets\n", stats.Graphs, stats.MaterialSets)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("gzip", false, "treat the input as gzip-compressed")
}
