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
	"text/tabwriter"

	"github.com/spf13/cobra"

	adapterrepo "github.com/studypup/studypup/internal/adapter/repository"
	"github.com/studypup/studypup/internal/app"
)

var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "Manage stored knowledge graphs",
}

var graphsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge graphs",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		filter, _ := cmd.Flags().GetString("filter")
		orderBy, _ := cmd.Flags().GetString("order-by")

		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		query, err := adapterrepo.NewListGraphQuery(owner, filter, orderBy)
		if err != nil {
			return err
		}
		graphs, err := container.GraphUC.List(cmd.Context(), query)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tCONCEPTS\tCREATED")
		for _, g := range graphs {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\t%s\n",
				g.ID, g.Emoji, g.Title, g.Source.Type, len(g.Concepts),
				g.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var graphsDeleteCmd = &cobra.Command{
	Use:   "delete <graph-id>",
	Short: "Delete a knowledge graph and its study materials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, cleanup, err := app.Initialize()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := container.GraphUC.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphsCmd)
	graphsCmd.AddCommand(graphsListCmd)
	graphsCmd.AddCommand(graphsDeleteCmd)

	graphsListCmd.Flags().String("owner", "", "filter by owner id")
	graphsListCmd.Flags().String("filter", "", `filter expression, e.g. source_type == "lecture"`)
	graphsListCmd.Flags().String("order-by", "", `ordering, e.g. "created_at desc, title"`)
}
