package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/report"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

type searchFlags struct {
	filter        views.SearchFilter
	sourceType    string
	financialYear string
	limit         int
	skip          int
	xlsx          string
}

type openFlags struct {
	filter views.OpenFilter
	limit  int
	skip   int
	xlsx   string
}

var (
	sFlags searchFlags
	oFlags openFlags
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search orders",
	Long: `Searches orders. A term given as argument is used for every field that
has no flag of its own, the same way the dashboard's global search box works.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openCLI()
		if err != nil {
			return err
		}
		defer env.close()
		f := sFlags
		if len(args) == 1 {
			f.filter.Global = args[0]
		}
		return runSearch(cmd, env, f)
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "List open (not yet dispatched) orders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openCLI()
		if err != nil {
			return err
		}
		defer env.close()
		return runOpen(cmd, env, oFlags)
	},
}

func init() {
	sf := searchCmd.Flags()
	sf.StringVar(&sFlags.filter.PONumber, "po", "", "PO number")
	sf.StringVar(&sFlags.filter.SerialNumber, "serial", "", "serial number")
	sf.StringVar(&sFlags.filter.PartNumber, "part", "", "part number")
	sf.StringVar(&sFlags.filter.CustomerName, "customer", "", "customer name")
	sf.StringVar(&sFlags.filter.Status, "status", "", "PENDING or DISPATCHED")
	sf.StringVar(&sFlags.sourceType, "source", "", "OUTSTANDING or DELIVERY")
	sf.StringVar(&sFlags.financialYear, "fy", "", "financial year, e.g. 2024-2025")
	sf.IntVar(&sFlags.limit, "limit", 0, "maximum rows (backend default when 0)")
	sf.IntVar(&sFlags.skip, "skip", 0, "rows to skip")
	sf.StringVar(&sFlags.xlsx, "xlsx", "", "also write the rows to this XLSX file")

	of := openCmd.Flags()
	of.StringVar(&oFlags.filter.CustomerName, "customer", "", "customer name")
	of.StringVar(&oFlags.filter.PartNumber, "part", "", "part number")
	of.BoolVar(&oFlags.filter.TodayOnly, "today", false, "only orders opened today")
	of.IntVar(&oFlags.limit, "limit", 0, "maximum rows (backend default when 0)")
	of.IntVar(&oFlags.skip, "skip", 0, "rows to skip")
	of.StringVar(&oFlags.xlsx, "xlsx", "", "also write the rows to this XLSX file")
}

func runSearch(cmd *cobra.Command, env *cliEnv, f searchFlags) error {
	ctx := cmd.Context()
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	f.filter.Status = strings.ToUpper(f.filter.Status)
	q := f.filter.Query()
	q.SourceType = strings.ToUpper(f.sourceType)
	q.FinancialYear = f.financialYear
	q.Limit, q.Skip = f.limit, f.skip

	res := api.Call(func() ([]api.Order, error) { return env.client.SearchOrders(ctx, q) })
	if err := env.check(ctx, res, res.Err); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Value) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No orders matched your filters."))
		return nil
	}
	fmt.Fprintln(out, searchTable(res.Value))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d order(s)", len(res.Value))))
	return writeXLSX(out, f.xlsx, "Search", report.SearchColumns, res.Value)
}

func runOpen(cmd *cobra.Command, env *cliEnv, f openFlags) error {
	ctx := cmd.Context()
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	q := f.filter.Query()
	q.Limit, q.Skip = f.limit, f.skip

	res := api.Call(func() ([]api.Order, error) { return env.client.OpenOrders(ctx, q) })
	if err := env.check(ctx, res, res.Err); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summaryLine(views.Summarize(res.Value)))
	if len(res.Value) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No open orders match your filters."))
		return nil
	}
	fmt.Fprintln(out, openTable(res.Value))
	return writeXLSX(out, f.xlsx, "Open Orders", report.OpenColumns, res.Value)
}

func writeXLSX(out io.Writer, path, sheet string, cols []report.Column, orders []api.Order) error {
	if path == "" {
		return nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteOrders(fh, sheet, cols, orders); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
