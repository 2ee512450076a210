// Command report builds one dashboard report from a dataset snapshot and
// prints it as JSON. It is the offline counterpart of hirelens-server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/dashboard"
	"github.com/hirelens/hirelens/internal/dataset"
	"github.com/hirelens/hirelens/pkg/types"
)

func main() {
	configPath := flag.String("config", "", "optional config file for thresholds and dataset source")
	source := flag.String("source", "", "dataset file path or URL (overrides config)")
	envFile := flag.String("env-file", ".env", "load environment variables from this file if it exists")
	section := flag.String("section", "", "print one section only: summary|funnel|durations|pipeline|recruiters|jobs|weekly|alerts")
	failOnAlert := flag.Bool("fail-on-alert", false, "exit with status 2 when any alert fires")
	flag.Parse()

	// Logs go to stderr so stdout stays pure JSON.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load env file", "path", *envFile, "err", err)
		os.Exit(1)
	}

	dsCfg := config.DatasetConfig{RequestTimeout: config.DefaultRequestTimeout}
	opts := dashboard.DefaultOptions()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		dsCfg = cfg.Dataset
		opts = dashboard.OptionsFrom(cfg)
	}
	if *source != "" {
		dsCfg.Source = *source
	}
	if dsCfg.Source == "" {
		fmt.Fprintln(os.Stderr, "report: a dataset source is required (-source or -config)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ds, err := dataset.New(dsCfg).Load(ctx)
	if err != nil {
		slog.Error("failed to load dataset", "source", dsCfg.Source, "err", err)
		os.Exit(1)
	}
	rep := dashboard.Build(ds, opts, time.Now())

	out, err := pick(rep, *section)
	if err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("failed to write report", "err", err)
		os.Exit(1)
	}

	if *failOnAlert && len(rep.Alerts) > 0 {
		os.Exit(2)
	}
}

// pick selects the requested section of the report; "" and "dashboard" are
// the whole report.
func pick(rep *types.Report, section string) (interface{}, error) {
	switch section {
	case "", "dashboard":
		return rep, nil
	case "summary":
		return rep.Headline, nil
	case "funnel":
		return rep.Funnel, nil
	case "durations":
		return rep.Durations, nil
	case "pipeline":
		return rep.Pipeline, nil
	case "recruiters":
		return rep.Recruiters, nil
	case "jobs":
		return rep.Jobs, nil
	case "weekly":
		return rep.Weekly, nil
	case "alerts":
		return rep.Alerts, nil
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}
}
