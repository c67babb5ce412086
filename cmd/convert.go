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
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/studypup/studypup/internal/app"
	"github.com/studypup/studypup/internal/entity"
)

// convertCmd turns files and links into the aggregated text the pipeline
// consumes, without running extraction.
var convertCmd = &cobra.Command{
	Use:   "convert <file|url>...",
	Short: "Convert content items (audio, images, links) to text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		items := make([]entity.ContentItem, 0, len(args))
		for _, arg := range args {
			t := entity.DetectContentType(arg)
			item := entity.ContentItem{Name: filepath.Base(arg), Type: t, Path: arg}
			if t == entity.ContentTypeLink {
				item.Name = arg
				item.Text = arg
				item.Path = ""
			}
			items = append(items, item)
		}

		text, err := container.Conversion.ConvertToText(cmd.Context(), items)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
