package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	"order-report-services/internal/render"
	"order-report-services/internal/utils"

	"github.com/spf13/cobra"
)

type engineOpener func(ctx context.Context) (*analytics.Engine, config.Config, func(), error)

type reportFlags struct {
	from     string
	to       string
	period   string
	branch   string
	page     int
	limit    int
	category string
	view     string
	pdf      string
}

// dateRange returns the explicit --from/--to pair, or the --period preset
// evaluated in the configured report timezone when both are omitted.
func (f *reportFlags) dateRange(cfg config.Config, now time.Time) (string, string, error) {
	if f.from != "" || f.to != "" {
		return f.from, f.to, nil
	}
	return utils.PresetRange(f.period, now.In(utils.LoadLocation(cfg.ReportTimezone)))
}

func newRootCommand(open engineOpener) *cobra.Command {
	flags := &reportFlags{}
	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Print order reports for a branch and date range",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.from, "from", "", "first day (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&flags.to, "to", "", "last day (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&flags.period, "period", utils.PeriodToday, "today, yesterday, 7d or 30d when --from/--to are omitted")
	root.PersistentFlags().StringVar(&flags.branch, "branch", "", "branch key (default DEFAULT_BRANCH)")

	run := func(fn func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			engine, cfg, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			if closeFn != nil {
				defer closeFn()
			}
			branch := flags.branch
			if branch == "" {
				branch = cfg.DefaultBranch
			}
			if flags.from, flags.to, err = flags.dateRange(cfg, time.Now()); err != nil {
				return err
			}
			return fn(ctx, engine, branch, cmd.OutOrStdout())
		}
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Revenue, payments and compensation totals",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error {
			s, err := engine.Summary(ctx, analytics.SummaryQuery{From: flags.from, To: flags.to, Branch: branch})
			if err != nil {
				return err
			}
			if flags.pdf != "" {
				return writePDF(flags.pdf, out, func() ([]byte, error) { return render.SummaryPDF(s) })
			}
			return render.WriteSummary(out, s)
		}),
	}
	summary.Flags().StringVar(&flags.pdf, "pdf", "", "write a PDF to this path instead of text")

	staff := &cobra.Command{
		Use:     "staff",
		Aliases: []string{"waiters"},
		Short:   "Per-staff revenue and compensation",
		Args:    cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error {
			view, err := analytics.ParseStaffView(flags.view)
			if err != nil {
				return err
			}
			report, err := engine.StaffReport(ctx, analytics.StaffQuery{
				From:   flags.from,
				To:     flags.to,
				Branch: branch,
				Page:   analytics.PageRequest{Page: flags.page, Limit: flags.limit},
				View:   view,
			})
			if err != nil {
				return err
			}
			if flags.pdf != "" {
				return writePDF(flags.pdf, out, func() ([]byte, error) { return render.StaffPDF(report) })
			}
			return render.WriteStaff(out, report)
		}),
	}
	staff.Flags().IntVar(&flags.page, "page", 1, "page number")
	staff.Flags().IntVar(&flags.limit, "limit", analytics.DefaultPageLimit, "rows per page (max 100)")
	staff.Flags().StringVar(&flags.view, "view", string(analytics.StaffViewAudit), "audit or payroll")
	staff.Flags().StringVar(&flags.pdf, "pdf", "", "write a PDF to this path instead of text")

	products := &cobra.Command{
		Use:   "products",
		Short: "Paginated product sales",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error {
			report, err := engine.ProductsReport(ctx, analytics.ProductsQuery{
				From:     flags.from,
				To:       flags.to,
				Branch:   branch,
				Category: flags.category,
				Page:     analytics.PageRequest{Page: flags.page, Limit: flags.limit},
			})
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Products (page %d of %d)", report.Meta.Page, report.Meta.Pages)
			offset := (report.Meta.Page - 1) * report.Meta.Limit
			return render.WriteProducts(out, title, report.Range, offset, report.Rows)
		}),
	}
	products.Flags().IntVar(&flags.page, "page", 1, "page number")
	products.Flags().IntVar(&flags.limit, "limit", analytics.DefaultPageLimit, "rows per page (max 100)")
	products.Flags().StringVar(&flags.category, "category", "", "exact category, case-insensitive")

	top := &cobra.Command{
		Use:   "top-products",
		Short: "Best selling products by revenue",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error {
			report, err := engine.TopProducts(ctx, analytics.TopProductsQuery{
				From:     flags.from,
				To:       flags.to,
				Branch:   branch,
				Category: flags.category,
				Limit:    flags.limit,
			})
			if err != nil {
				return err
			}
			return render.WriteProducts(out, fmt.Sprintf("Top %d products", report.Limit), report.Range, 0, report.Rows)
		}),
	}
	top.Flags().IntVar(&flags.limit, "limit", analytics.DefaultTopLimit, "number of products (max 50)")
	top.Flags().StringVar(&flags.category, "category", "", "exact category, case-insensitive")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Distinct categories sold in the period",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *analytics.Engine, branch string, out io.Writer) error {
			report, err := engine.Categories(ctx, analytics.CategoriesQuery{From: flags.from, To: flags.to, Branch: branch})
			if err != nil {
				return err
			}
			return render.WriteCategories(out, report)
		}),
	}

	root.AddCommand(summary, staff, products, top, categories)
	return root
}

func writePDF(path string, out io.Writer, build func() ([]byte, error)) error {
	body, err := build()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "wrote %s (%d bytes)\n", path, len(body))
	return err
}
