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

// exportCmd dumps graphs and material sets as NDJSON.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export knowledge graphs and study materials as NDJSON",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		owner, _ := cmd.Flags().GetString("owner")
		output, _ := cmd.Flags().GetString("output")
		gzipEnabled, _ := cmd.Flags().GetBool("gzip")

		if !gzipEnabled && output != "-" && strings.HasSuffix(strings.ToLower(output), ".gz") {
			gzipEnabled = true
		}

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		var (
			writer   io.Writer = cmd.OutOrStdout()
			closeFns []func() error
		)
		if output != "-" {
			file, openErr := os.Create(output)
			if openErr != nil {
				return fmt.Errorf("create backup file: %w", openErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}
		if gzipEnabled {
			gz := gzip.NewWriter(writer)
			writer = gz
			closeFns = append([]func() error{gz.Close}, closeFns...)
		}
		defer func() {
			for _, closer := range closeFns {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		stats, err := container.Backup.Export(cmd.Context(), owner, writer)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d graphs, %d material sets\n", stats.Graphs, stats.MaterialSets)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("owner", "", "owner id to export (empty exports everything)")
	exportCmd.Flags().String("output", "-", "output file, or - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
}
