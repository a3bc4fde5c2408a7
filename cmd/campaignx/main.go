package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/peterkuimelis/campaignx/internal/config"
	"github.com/peterkuimelis/campaignx/internal/log"
	cxnet "github.com/peterkuimelis/campaignx/internal/net"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "replay":
		err = runReplay(ctx, os.Args[2:])
	case "results":
		err = runResults(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  campaignx play    [--seed N] [--tuning FILE]")
	fmt.Println("  campaignx host    [--seed N] [--port P] [--tuning FILE]")
	fmt.Println("  campaignx join    [--addr ADDR]")
	fmt.Println("  campaignx replay  ID|FILE")
	fmt.Println("  campaignx results [--limit N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play      Run a campaign in this terminal")
	fmt.Println("  host      Wait for one candidate to join over TCP and run their campaign")
	fmt.Println("  join      Connect to a host and play")
	fmt.Println("  replay    Print the event archive of a finished campaign")
	fmt.Println("  results   List recently finished campaigns")
	fmt.Println()
	fmt.Println("Environment: CAMPAIGNX_DB, CAMPAIGNX_ARCHIVE_DIR, CAMPAIGNX_TUNING,")
	fmt.Println("CAMPAIGNX_PORT, CAMPAIGNX_NO_RECORD, CAMPAIGNX_LOG_LEVEL")
}

// newServer applies the shared flags on top of the environment config.
func newServer(name string, args []string, withPort bool) (*cxnet.Server, *session.Recorder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	seed := fs.Int64("seed", 0, "random seed (0 picks one)")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "balance table YAML (default: built in)")
	fs.BoolVar(&cfg.NoRecord, "no-record", cfg.NoRecord, "do not save the campaign")
	if withPort {
		fs.StringVar(&cfg.Port, "port", cfg.Port, "TCP port to listen on")
	}
	fs.Parse(args)

	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logger(os.Stderr)
	rec, err := session.OpenRecorder(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return &cxnet.Server{
		Port:     cfg.Port,
		Tuning:   tuning,
		Recorder: rec,
		Seed:     *seed,
		Log:      logger,
	}, rec, nil
}

func runPlay(ctx context.Context, args []string) error {
	srv, rec, err := newServer("play", args, false)
	if err != nil {
		return err
	}
	defer rec.Close()

	_, err = srv.PlayLocal(ctx, os.Stdin, os.Stdout)
	return err
}

func runHost(ctx context.Context, args []string) error {
	srv, rec, err := newServer("host", args, true)
	if err != nil {
		return err
	}
	defer rec.Close()

	srv.Console = log.NewTextLogger(os.Stdout)
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:"+cfg.Port, "server address to connect to")
	fs.Parse(args)

	return cxnet.Connect(ctx, *addr, os.Stdin, os.Stdout)
}

// runReplay accepts an archive path or a campaign ID from the results store.
func runReplay(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("replay needs a campaign ID or archive file")
	}
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = log.ArchivePath(cfg.ArchiveDir, args[0])
		if st, err := store.Open(cfg.DBPath); err == nil {
			if rec, err := st.Get(ctx, args[0]); err == nil && rec.Archive != "" {
				path = rec.Archive
			}
			st.Close()
		}
	}

	events, err := log.ReadArchive(path)
	if err != nil {
		return err
	}
	fmt.Print(log.FormatAll(events))
	return nil
}

func runResults(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of campaigns to list")
	fs.Parse(args)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.Recent(ctx, *limit)
	if err != nil {
		return err
	}
	tally, err := st.Tally(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCANDIDATE\tPARTY\tDIFFICULTY\tOUTCOME\tWEEKS\tFINISHED")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Candidate, r.Party, r.Difficulty, r.Outcome, r.WeeksPlayed,
			r.FinishedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()

	fmt.Println()
	for o, n := range tally {
		fmt.Printf("%s: %d\n", o, n)
	}
	return nil
}
