package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/peterkuimelis/campaignx/internal/config"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.WebAddr, "addr", cfg.WebAddr, "HTTP address to listen on")
	flag.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "balance table YAML (default: built in)")
	flag.Parse()

	tuning, err := cfg.Tuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)
	rec, err := session.OpenRecorder(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rec.Close()

	srv := web.NewServer(web.Options{Tuning: tuning, Recorder: rec, Log: logger})

	logger.Info("campaignx web UI listening", "addr", cfg.WebAddr)
	if err := srv.ListenAndServe(cfg.WebAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
