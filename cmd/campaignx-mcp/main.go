package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/campaignx/internal/config"
	cxmcp "github.com/peterkuimelis/campaignx/internal/mcp"
	"github.com/peterkuimelis/campaignx/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "balance table YAML (default: built in)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file for finished campaigns")
	flag.Parse()

	tuning, err := cfg.Tuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol
	rec, err := session.OpenRecorder(cfg, cfg.Logger(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rec.Close()

	cxmcp.SetTuning(tuning)
	cxmcp.SetRecorder(rec)

	s := server.NewMCPServer("campaignx", "1.0.0")
	cxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
