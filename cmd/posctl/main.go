package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/shoppos/backend-go/internal/app"
	"github.com/andresuchdata/shoppos/backend-go/internal/config"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/pkg/logger"
)

type appKey struct{}

func newDateFlag(name, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  name,
		Usage: usage + " (dd-mm-yyyy, defaults to today)",
	}
}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	if backend := c.String("backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	logger.SetLevel(c.String("log-level"))
	logger.UseConsole(c.App.ErrWriter)

	a, err := app.New(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	c.Context = context.WithValue(c.Context, appKey{}, a)
	return nil
}

func closeApp(c *cli.Context) error {
	if a, ok := c.Context.Value(appKey{}).(*app.App); ok && a != nil {
		return a.Close()
	}
	return nil
}

func appFrom(c *cli.Context) *app.App {
	return c.Context.Value(appKey{}).(*app.App)
}

// dateArg resolves a date flag against the shop's clock.
func dateArg(c *cli.Context, name string) (domain.BusinessDate, error) {
	raw := c.String(name)
	if raw == "" {
		return appFrom(c).Services.Clock.Today(), nil
	}
	return domain.ParseBusinessDate(raw)
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}
	decimal.MarshalJSONWithoutQuotes = true

	cliApp := &cli.App{
		Name:  "posctl",
		Usage: "Inspect and maintain the shop's sales, stock and cash records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Row store backend: sheets, postgres, xlsx or memory",
				EnvVars: []string{"STORE_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"POSCTL_LOG_LEVEL"},
			},
		},
		Before: initApp,
		After:  closeApp,
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Print the sales summary of a day",
				Flags:  []cli.Flag{newDateFlag("date", "Business day")},
				Action: runSummary,
			},
			{
				Name:   "reconcile",
				Usage:  "Print the stock reconciliation of a day",
				Flags:  []cli.Flag{newDateFlag("date", "Business day")},
				Action: runReconcile,
			},
			{
				Name:  "history",
				Usage: "Print one reconciliation line per day",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "First day (dd-mm-yyyy)", Required: true},
					newDateFlag("to", "Last day"),
				},
				Action: runHistory,
			},
			{
				Name:   "cash",
				Usage:  "Print the cash drawer position of a day",
				Flags:  []cli.Flag{newDateFlag("date", "Business day")},
				Action: runCash,
			},
			{
				Name:   "dates",
				Usage:  "List the days that have sales",
				Action: runDates,
			},
			{
				Name:   "carry-over",
				Usage:  "Seed opening balances from the previous day's count",
				Flags:  []cli.Flag{newDateFlag("date", "Business day")},
				Action: runCarryOver,
			},
			{
				Name:  "export",
				Usage: "Write the daily report workbook",
				Flags: []cli.Flag{
					newDateFlag("date", "Business day"),
					&cli.StringFlag{Name: "out", Usage: "Output path, defaults to shop-<date>.xlsx"},
					&cli.BoolFlag{Name: "upload", Usage: "Also upload the report to the archive bucket"},
				},
				Action: runExport,
			},
			{
				Name:   "backup",
				Usage:  "Export the whole spreadsheet to the archive bucket",
				Action: runBackup,
			},
			{
				Name:  "cache-flush",
				Usage: "Drop cached summaries after past sales tabs were edited",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Only this day (dd-mm-yyyy); all days when omitted"},
				},
				Action: runCacheFlush,
			},
			{
				Name:   "migrate",
				Usage:  "Create the postgres row store schema",
				Action: runMigrate,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("posctl failed")
	}
}
