package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/shoppos/backend-go/internal/app"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/service"
)

func runSummary(c *cli.Context) error {
	date, err := dateArg(c, "date")
	if err != nil {
		return err
	}
	day, err := appFrom(c).Services.Summary.GetSummary(c.Context, date)
	if err != nil {
		return err
	}
	return printJSON(c, day)
}

func runReconcile(c *cli.Context) error {
	date, err := dateArg(c, "date")
	if err != nil {
		return err
	}
	day, err := appFrom(c).Services.Inventory.Reconcile(c.Context, date)
	if err != nil {
		return err
	}
	return printJSON(c, day)
}

func runHistory(c *cli.Context) error {
	from, err := domain.ParseBusinessDate(c.String("from"))
	if err != nil {
		return err
	}
	to, err := dateArg(c, "to")
	if err != nil {
		return err
	}
	lines, err := appFrom(c).Services.Inventory.History(c.Context, from, to)
	if err != nil {
		return err
	}
	return printJSON(c, lines)
}

func runCash(c *cli.Context) error {
	date, err := dateArg(c, "date")
	if err != nil {
		return err
	}
	day, err := appFrom(c).Services.Cash.Get(c.Context, date)
	if err != nil {
		return err
	}
	return printJSON(c, day)
}

func runDates(c *cli.Context) error {
	dates, err := appFrom(c).Services.Summary.ListAvailableDates(c.Context)
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Fprintln(c.App.Writer, d)
	}
	return nil
}

func runCarryOver(c *cli.Context) error {
	date, err := dateArg(c, "date")
	if err != nil {
		return err
	}
	n, err := appFrom(c).Services.Inventory.CarryOver(c.Context, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: seeded %d opening balances\n", date, n)
	return nil
}

func runExport(c *cli.Context) error {
	date, err := dateArg(c, "date")
	if err != nil {
		return err
	}
	services := appFrom(c).Services

	data, err := services.Reports.Workbook(c.Context, date)
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = service.WorkbookName(date)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", out, len(data))

	if !c.Bool("upload") {
		return nil
	}
	if services.Archive == nil {
		return fmt.Errorf("archive bucket is not configured")
	}
	key, err := services.Archive.ArchiveDay(c.Context, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "uploaded %s\n", key)
	return nil
}

func runBackup(c *cli.Context) error {
	archive := appFrom(c).Services.Archive
	if archive == nil {
		return fmt.Errorf("archive bucket is not configured")
	}
	key, err := archive.Backup(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "uploaded %s\n", key)
	return nil
}

func runCacheFlush(c *cli.Context) error {
	var date *domain.BusinessDate
	if c.IsSet("date") {
		d, err := domain.ParseBusinessDate(c.String("date"))
		if err != nil {
			return err
		}
		date = &d
	}
	n, err := appFrom(c).Services.Summary.FlushCache(c.Context, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "dropped %d cached summaries\n", n)
	return nil
}

func runMigrate(c *cli.Context) error {
	a := appFrom(c)
	if a.Config.Store.Backend != app.BackendPostgres {
		return fmt.Errorf("migrate only applies to the postgres backend, not %q", a.Config.Store.Backend)
	}
	return a.Migrate(c.Context)
}
