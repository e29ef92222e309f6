// agridash-chart fetches a commodity price history and renders it as a PNG
// line chart. One-shot companion to the interactive dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"agridash/internal/api"
	"agridash/internal/config"
	"agridash/internal/trend"
	"agridash/internal/util"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		county     = flag.String("county", "", "county name")
		marketName = flag.String("market", "", "market name")
		commodity  = flag.String("commodity", "", "commodity name")
		days       = flag.Int("days", 0, "days of history (default from config)")
		priceType  = flag.String("price", "wholesale", "price type: wholesale or retail")
		out        = flag.String("out", "", "output PNG path (default <commodity>.png)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	util.SetDefault(logger)

	if *days <= 0 {
		*days = cfg.Trend.DefaultDays
	}
	if *out == "" {
		*out = *commodity + ".png"
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	series, err := trend.Fetch(ctx, client, *county, *marketName, *commodity, *days, trend.PriceType(*priceType))
	if err != nil {
		logger.Error("fetching trend", "error", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Error("creating output file", "path", *out, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := trend.RenderPNG(f, series); err != nil {
		logger.Error("rendering chart", "error", err)
		os.Exit(1)
	}

	logger.Info("chart written",
		"path", *out,
		"points", len(series.Values),
		"commodity", *commodity,
		"price_type", *priceType,
	)
}
