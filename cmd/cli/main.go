package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/hamed0406/statuspage/internal/config"
	"github.com/hamed0406/statuspage/internal/feed"
	"github.com/hamed0406/statuspage/internal/render"
	"github.com/hamed0406/statuspage/internal/statuspage"
	"github.com/hamed0406/statuspage/internal/timeline"
)

// cli fetches the history window once and prints the page to stdout.
func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	apiBase := pflag.String("api", "", "checkup backend, overrides api_base from config")
	days := pflag.Int("days", 0, "history window in days, overrides timeframe")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg = cfg.WithDays(*days)
	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	src, err := feed.NewClient(cfg.APIBase, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal(err)
	}

	seed := timeline.SeedAbsent
	if cfg.SeedHealthy {
		seed = timeline.SeedHealthy
	}
	tl := render.NewTimeline(render.StatusText(cfg.StatusText), cfg.Timeframe)
	page := statuspage.New(nil, src, tl, statuspage.Options{
		Timeframe:  cfg.Timeframe,
		SeedPolicy: seed,
		Dedup:      cfg.DedupResults,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout+5*time.Second)
	defer cancel()
	if _, err := page.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting API:", err)
		os.Exit(1)
	}
	page.RefreshTime()

	v := tl.View(0)
	fmt.Printf("%s (%s)\n", v.Banner.Text, v.Banner.Indicator)
	fmt.Printf("Availability over the last %s: %s, %d checks observed, last check %s\n\n",
		v.Timeframe, v.Availability, v.CheckCount, v.LastCheck)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, t := range v.Targets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Title, t.Endpoint, t.Status)
	}
	tw.Flush()
	fmt.Println()

	for _, b := range v.Events {
		if b.IsMessage() {
			fmt.Printf("#%d  %-8s %s (%s): %s\n", b.EventID, b.Status, b.Title, b.Ago, b.Message)
			continue
		}
		fmt.Printf("#%d  %-8s %s at %s\n", b.EventID, b.Status, b.Title, b.Time)
	}
}
