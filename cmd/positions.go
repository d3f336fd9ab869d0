package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang-portfolio/internal/delivery/cli"
	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/service"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/utils"

	"github.com/spf13/cobra"
)

// runWithServices wires the app for one CLI invocation and closes it afterwards.
func runWithServices(cmd *cobra.Command, configPath string, fn func(ctx context.Context, app *AppDependency, svc service.PositionService) error) error {
	app, err := NewAppDependency(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := logger.NewContext(cmd.Context(), app.log.With(logger.StringField("command", cmd.Name())))
	return fn(ctx, app, app.Services().PositionService)
}

func renderer(cmd *cobra.Command, app *AppDependency) *cli.Renderer {
	plain, _ := cmd.Flags().GetBool("plain")
	return cli.NewRenderer(app.cfg.Display, plain)
}

func printMarkdown(cmd *cobra.Command, r *cli.Renderer, markdown string) error {
	out, err := r.Render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func printPortfolio(ctx context.Context, cmd *cobra.Command, app *AppDependency, svc service.PositionService) error {
	summary, err := svc.Summary(ctx)
	if err != nil {
		return err
	}
	r := renderer(cmd, app)
	return printMarkdown(cmd, r, r.PositionsTable(summary.Positions, summary.Totals))
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid position id %q", arg)
	}
	return uint(id), nil
}

// positionFlags are the entry-form fields shared by add and update.
type positionFlags struct {
	symbol     string
	tradeType  string
	quantity   int
	price      float64
	entry      float64
	stopLoss   float64
	target     float64
	resetBands bool
}

func (f *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "stock symbol, optionally CODE:EXCHANGE")
	cmd.Flags().StringVarP(&f.tradeType, "type", "t", "", "trade type: Bullish or Bearish")
	cmd.Flags().IntVarP(&f.quantity, "qty", "q", 0, "number of shares")
	cmd.Flags().Float64Var(&f.price, "price", 0, "current price; fetched from the quote source when omitted")
	cmd.Flags().Float64Var(&f.entry, "entry", 0, "entry price (default: current price)")
	cmd.Flags().Float64Var(&f.stopLoss, "stop-loss", 0, "stop-loss price (default: 5% against the trade)")
	cmd.Flags().Float64Var(&f.target, "target", 0, "target price (default: 5% with the trade)")
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
}

// apply copies the flags the user actually set onto req.
func (f *positionFlags) apply(cmd *cobra.Command, req *dto.PositionRequest) {
	flags := cmd.Flags()
	if flags.Changed("symbol") {
		req.Symbol = f.symbol
	}
	if flags.Changed("type") {
		req.TradeType = f.tradeType
	}
	if flags.Changed("qty") {
		req.Quantity = f.quantity
	}
	if flags.Changed("price") {
		req.CurrentPrice = &f.price
	}
	if flags.Changed("entry") {
		req.EntryPrice = &f.entry
	}
	if flags.Changed("stop-loss") {
		req.StopLoss = &f.stopLoss
	}
	if flags.Changed("target") {
		req.Target = &f.target
	}
}

func newAddCmd(configPath *string) *cobra.Command {
	var f positionFlags
	cmd := &cobra.Command{
		Use:   "add [SYMBOL]",
		Short: "Add a position; the current price is fetched unless --price is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.PositionRequest
			if len(args) == 1 {
				req.Symbol = args[0]
			}
			f.apply(cmd, &req)

			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				id, err := svc.CreatePosition(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added position #%d.\n", id)
				return printPortfolio(ctx, cmd, app, svc)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show every position with its profit/loss",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				return printPortfolio(ctx, cmd, app, svc)
			})
		},
	}
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	return cmd
}

func newShowCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				view, err := svc.GetPosition(ctx, id)
				if err != nil {
					return err
				}
				r := renderer(cmd, app)
				return printMarkdown(cmd, r, r.PositionDetail(*view))
			})
		},
	}
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	return cmd
}

func newUpdateCmd(configPath *string) *cobra.Command {
	var f positionFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a position; the current price is fetched again unless --price is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				existing, err := svc.GetPosition(ctx, id)
				if err != nil {
					return err
				}

				req := existing.ToRequest()
				if f.resetBands {
					req.StopLoss, req.Target = nil, nil
				}
				f.apply(cmd, &req)

				if err := svc.UpdatePosition(ctx, id, req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated position #%d.\n", id)
				return printPortfolio(ctx, cmd, app, svc)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.resetBands, "reset-bands", false, "recompute stop-loss and target from the entry price")
	return cmd
}

func newDeleteCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				existing, err := svc.GetPosition(ctx, id)
				if err != nil {
					return err
				}

				if !yes {
					fmt.Fprintf(cmd.OutOrStdout(), "Delete position #%d (%s)? [y/N] ", id, existing.Symbol)
					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					answer = strings.ToLower(strings.TrimSpace(answer))
					if answer != "y" && answer != "yes" {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
				}

				if err := svc.DeletePosition(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted position #%d.\n", id)
				return printPortfolio(ctx, cmd, app, svc)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	return cmd
}

func newQuoteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Fetch the current price of a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				quote, err := svc.GetQuote(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", quote.Symbol, utils.FormatMoney(quote.Price, app.cfg.Display.Currency))
				return nil
			})
		},
	}
}

func newPlanCmd(configPath *string) *cobra.Command {
	var tradeType string
	cmd := &cobra.Command{
		Use:   "plan SYMBOL",
		Short: "Suggest entry, stop-loss and target from the current price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				plan, err := svc.SuggestPlan(ctx, args[0], tradeType)
				if err != nil {
					return err
				}
				r := renderer(cmd, app)
				return printMarkdown(cmd, r, r.Plan(*plan))
			})
		},
	}
	cmd.Flags().StringVarP(&tradeType, "type", "t", "Bullish", "trade type: Bullish or Bearish")
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	return cmd
}

func newRefreshCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the current price of every position and send alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithServices(cmd, *configPath, func(ctx context.Context, app *AppDependency, svc service.PositionService) error {
				result, err := svc.RefreshPrices(ctx)
				if err != nil {
					return err
				}
				r := renderer(cmd, app)
				if err := printMarkdown(cmd, r, r.RefreshReport(*result)); err != nil {
					return err
				}
				return printPortfolio(ctx, cmd, app, svc)
			})
		},
	}
	cmd.Flags().Bool("plain", false, "print markdown without terminal styling")
	return cmd
}
