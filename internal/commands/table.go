package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the registered tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTableList(cmd.OutOrStdout())
		},
	}
}

func printTableList(w io.Writer) error {
	tw := tablewriter.NewWriter(w)
	tw.Header([]string{"Group", "Key", "Label", "Description"})
	for _, group := range core.Groups() {
		for _, def := range core.ByGroup(group) {
			if err := tw.Append([]string{group, def.Info.Key, def.Info.Label, def.Info.Description}); err != nil {
				return err
			}
		}
	}
	return tw.Render()
}

// pageRequest is one page of a table as asked for on the command line.
type pageRequest struct {
	sort   string
	desc   bool
	page   int
	size   int
	search string
}

func newTableCommand(g *globals) *cobra.Command {
	var req pageRequest

	cmd := &cobra.Command{
		Use:   "table <key>",
		Short: "Print one page of a table",
		Example: "  backoffice table transactions --sort amount --desc --size 25\n" +
			"  backoffice table archive --search \"harbor foods\"",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g.cfg)
			if err != nil {
				return err
			}
			defer a.close()
			return printTablePage(cmd.Context(), cmd.OutOrStdout(), a.service, args[0], req)
		},
	}

	cmd.Flags().StringVar(&req.sort, "sort", "", "column id to sort by")
	cmd.Flags().BoolVar(&req.desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&req.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&req.size, "size", 0, "rows per page (one of TABLE_PAGE_SIZES)")
	cmd.Flags().StringVar(&req.search, "search", "", "filter rows by text")

	return cmd
}

// printTablePage drives a fresh engine to the requested state and prints
// its visible window.
func printTablePage(ctx context.Context, w io.Writer, svc *core.Service, key string, req pageRequest) error {
	t, err := svc.OpenTable(ctx, key)
	if err != nil {
		return err
	}
	eng := t.Engine

	if req.sort != "" {
		if err := eng.SetSort(req.sort); err != nil {
			return err
		}
		if (eng.Sort().Direction == tableview.Desc) != req.desc {
			if err := eng.SetSort(req.sort); err != nil {
				return err
			}
		}
	}
	if req.size != 0 {
		if err := eng.SetPageSize(req.size); err != nil {
			return err
		}
	}
	eng.SetSearch(req.search)
	eng.SetPage(req.page - 1)

	return renderView(w, t.Def.Info.Label, eng.View())
}

func renderView(w io.Writer, title string, v tableview.View) error {
	header := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		header[i] = c.Label
		if c.Sorted {
			header[i] += " " + sortArrow(c.Direction)
		}
	}

	tw := tablewriter.NewWriter(w)
	tw.Header(header)
	for _, row := range v.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Content.Text
		}
		if err := tw.Append(cells); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, title)
	if v.Empty {
		fmt.Fprintln(w, "No records found")
		return nil
	}
	if err := tw.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w, pageSummary(v.Page))
	return nil
}

func sortArrow(d tableview.Direction) string {
	if d == tableview.Desc {
		return "▼"
	}
	return "▲"
}

func pageSummary(p tableview.PageInfo) string {
	if p.TotalRows == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d–%d of %d · page %d of %d",
		p.First, p.Last, p.TotalRows, p.Index+1, max(p.TotalPages, 1))
}
