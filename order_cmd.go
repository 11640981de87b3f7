package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"storefront/config"
	"storefront/db"
	"storefront/lang"
	"storefront/models"
	"storefront/services"
)

type orderArg struct {
	id   string
	size string
	qty  int
}

// parseOrderArg accepts "<id>=<qty>" and "<id>:<size>=<qty>". qty may be negative.
func parseOrderArg(s string) (orderArg, error) {
	key, qtyStr, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return orderArg{}, fmt.Errorf("bad item %q: want id=qty or id:size=qty", s)
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return orderArg{}, fmt.Errorf("bad quantity in %q: %w", s, err)
	}
	id, size, _ := strings.Cut(key, ":")
	return orderArg{id: id, size: size, qty: qty}, nil
}

// runOrder prints the summary for the given selections without Telegram.
func runOrder(ctx context.Context, cfg *config.Config, args []string) int {
	if cfg.Catalog.Source == config.CatalogSourceDB {
		if err := db.Init(ctx, cfg.DB); err != nil {
			fmt.Fprintln(os.Stderr, "db:", err)
			return 1
		}
		defer db.Close()
	}
	catalog, err := services.LoadCatalog(ctx, cfg.Catalog.Source, cfg.Catalog.Path)
	if err != nil {
		fmt.Fprintln(os.Stdout, lang.T(cfg.Telegram.DefaultLang, "catalog_load_failed", err))
	}
	if err := printOrder(os.Stdout, os.Stderr, catalog, cfg.Telegram.DefaultLang, cfg.Currency, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}

func printOrder(out, errOut io.Writer, catalog []models.CatalogItem, langCode, currency string, args []string) error {
	agg := services.NewAggregator(catalog)
	for _, a := range args {
		oa, err := parseOrderArg(a)
		if err != nil {
			return err
		}
		line := agg.LineByID(oa.id)
		if line == nil {
			fmt.Fprintf(errOut, "unknown item %q, skipped\n", oa.id)
			continue
		}
		if line.Sized() && oa.size == "" {
			fmt.Fprintf(errOut, "item %q needs a size (%s), skipped\n", oa.id, strings.Join(line.SizeNames(), ", "))
			continue
		}
		agg.AdjustQuantity(line, oa.qty, oa.size)
	}
	fmt.Fprintln(out, lang.T(langCode, "order_title"))
	for _, l := range services.SummaryLines(agg.BuildSummary(), langCode, currency) {
		fmt.Fprintln(out, l)
	}
	return nil
}
