package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"pricewise/business/pricing"
	"pricewise/domain"
	"pricewise/internal/repository/modelfile"
	"pricewise/internal/repository/spreadsheet"
	"pricewise/pkg/logger"
	"pricewise/pkg/money"
	"pricewise/pkg/utils"
	"time"

	"github.com/urfave/cli/v2"
)

// newService loads the artifact named by --model. The CLI has nothing to do
// without a model, so a load failure ends the command.
func newService(c *cli.Context) (*pricing.PricingService, error) {
	model, err := modelfile.Load(c.String("model"))
	if err != nil {
		return nil, err
	}
	logger.Debug("Model loaded", "name", model.Name(), "version", model.Version())

	return pricing.NewPricingService(pricing.NewInvoker(model), nil, nil, pricing.DefaultConfig()), nil
}

func predictCommand() *cli.Command {
	defaults := domain.DefaultInputRecord().Labeled()

	return &cli.Command{
		Name:  "predict",
		Usage: "Recommend a discount for one product scenario",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Value: defaults.Quantity, Usage: "Units expected to sell"},
			&cli.Float64Flag{Name: "unit-price", Aliases: []string{"p"}, Value: defaults.UnitPrice, Usage: "Price per unit before discount"},
			&cli.StringFlag{Name: "category", Value: defaults.PriceCategory, Usage: "Economy, Mid-Range, Premium or Luxury"},
			&cli.StringFlag{Name: "demand", Value: defaults.DemandLevel, Usage: "Low, Moderate, High or Very High"},
			&cli.IntFlag{Name: "month", Value: defaults.Month, Usage: "Month of sale (1-12)"},
			&cli.IntFlag{Name: "day", Value: defaults.DayOfMonth, Usage: "Day of month (1-31)"},
			&cli.IntFlag{Name: "hour", Value: defaults.Hour, Usage: "Selling hour (0-23)"},
			&cli.StringFlag{Name: "weekday", Value: defaults.DayOfWeek, Usage: "Day of week, Monday to Sunday"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format (text, json)"},
		},
		Action: runPredict,
	}
}

func runPredict(c *cli.Context) error {
	labeled := domain.LabeledInput{
		Quantity:      c.Int("quantity"),
		UnitPrice:     c.Float64("unit-price"),
		PriceCategory: c.String("category"),
		DemandLevel:   c.String("demand"),
		Month:         c.Int("month"),
		DayOfMonth:    c.Int("day"),
		Hour:          c.Int("hour"),
		DayOfWeek:     c.String("weekday"),
	}

	in, err := labeled.Resolve()
	if err != nil {
		return err
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}

	strategy, err := svc.Generate(c.Context, in)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return cli.Exit(verr.Message, 2)
		}
		return err
	}

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(strategy)
	case "text":
		printStrategy(c.App.Writer, strategy)
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func printStrategy(w io.Writer, s domain.DiscountStrategy) {
	fmt.Fprintf(w, "Recommended discount:   %s\n", money.Percent(s.DiscountPercent))
	fmt.Fprintf(w, "Base revenue:           %s\n", money.Format(s.Metrics.BaseRevenue))
	fmt.Fprintf(w, "Discounted unit price:  %s\n", money.Format(s.Metrics.DiscountedUnitPrice))
	fmt.Fprintf(w, "Revenue after discount: %s\n", money.Format(s.Metrics.RevenueAfterDiscount))
	fmt.Fprintf(w, "Change in revenue:      %s\n", money.Format(s.Metrics.RevenueDelta))
	if !s.WithinExpectedRange {
		fmt.Fprintln(w, "Note: the model returned a discount outside 0-100 %.")
	}
	fmt.Fprintln(w, s.Message)
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Score every scenario in an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "Workbook with a scenario header row"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Where to write the results workbook"},
		},
		Action: runBatch,
	}
}

func runBatch(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	in, err := os.Open(c.String("in"))
	if err != nil {
		return err
	}
	defer in.Close()

	scenarios, err := spreadsheet.ReadScenarios(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.String("in"), err)
	}

	outcomes := svc.GenerateBatch(c.Context, scenarios)

	out, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	if err := spreadsheet.WriteResults(out, outcomes); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Strategy == nil {
			failed++
			logger.Warn("Scenario failed", "row", o.Row, "error", o.Failure())
		}
	}

	fmt.Fprintf(c.App.Writer, "Scored %d scenarios (%d failed), wrote %s\n", len(outcomes), failed, c.String("out"))
	return nil
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for the prediction history API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", Required: true, EnvVars: []string{"JWT_SECRET"}, Usage: "HMAC secret shared with the server"},
			&cli.StringFlag{Name: "user-id", Value: "ops", Usage: "Subject recorded in the token"},
			&cli.StringFlag{Name: "role", Value: "ADMIN", Usage: "Role claim"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "Token lifetime"},
		},
		Action: func(c *cli.Context) error {
			token, err := utils.GenerateJWT(c.String("user-id"), c.String("role"), c.String("secret"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
