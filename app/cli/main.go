// PriceWise CLI: score discount strategies without the web form.
//
// Usage:
//
//	pricewise predict --quantity 10 --unit-price 5 --category Economy
//	pricewise batch --in scenarios.xlsx --out results.xlsx
//	pricewise token --secret $JWT_SECRET --user-id ops-1
package main

import (
	"fmt"
	"os"
	"pricewise/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pricewise",
		Usage:   "AI powered retail discount strategies",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Value:   "pricewise_model.yaml",
				Usage:   "Path to the trained model artifact",
				EnvVars: []string{"PRICEWISE_MODEL_PATH"},
			},
		},
		Commands: []*cli.Command{
			predictCommand(),
			batchCommand(),
			tokenCommand(),
		},
	}
}
