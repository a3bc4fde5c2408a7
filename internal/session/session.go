// Package session starts campaigns with an ID, an event archive and a
// database record, so every shell (terminal, MCP, web) records runs the
// same way.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/campaignx/internal/config"
	"github.com/peterkuimelis/campaignx/internal/log"
	"github.com/peterkuimelis/campaignx/internal/sim"
	"github.com/peterkuimelis/campaignx/internal/store"
)

// Recorder persists finished campaigns. The zero value records nothing.
type Recorder struct {
	Store      *store.Store // nil skips the database record
	ArchiveDir string       // "" skips the event archive
	Log        *slog.Logger
}

// OpenRecorder builds the recorder described by cfg. With NoRecord set it
// returns a recorder that only logs.
func OpenRecorder(cfg config.Config, logger *slog.Logger) (*Recorder, error) {
	r := &Recorder{Log: logger}
	if cfg.NoRecord {
		return r, nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	r.Store = st
	r.ArchiveDir = cfg.ArchiveDir
	return r, nil
}

// Close releases the database, if any.
func (r *Recorder) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// Options configures one campaign.
type Options struct {
	Tuning *sim.Tuning
	Setup  sim.Setup
	Seed   int64
	Logger log.EventLogger // optional extra sink, e.g. a TextLogger on stdout
}

// Session is a started campaign with its recording sinks attached.
type Session struct {
	ID       string
	Campaign *sim.Campaign
	Started  time.Time

	rec     *Recorder
	setup   sim.Setup
	archive *log.ArchiveLogger
	path    string
}

// Start validates the setup, attaches the archive and builds the campaign.
// The returned session has not run any week yet.
func (r *Recorder) Start(opts Options, ctrl sim.Controller) (*Session, error) {
	if r == nil {
		r = &Recorder{}
	}
	s := &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
		rec:     r,
		setup:   opts.Setup,
	}

	mem := log.NewMemoryLogger()
	sinks := log.Fanout{mem}
	if opts.Logger != nil {
		sinks = append(sinks, opts.Logger)
	}
	if r.ArchiveDir != "" {
		s.path = log.ArchivePath(r.ArchiveDir, s.ID)
		archive, err := log.NewArchiveLogger(s.path)
		if err != nil {
			return nil, fmt.Errorf("start campaign %s: %w", s.ID, err)
		}
		s.archive = archive
		sinks = append(sinks, archive)
	}

	c, err := sim.NewCampaign(sim.Config{
		Tuning: opts.Tuning,
		Setup:  opts.Setup,
		Logger: sinks,
		Seed:   opts.Seed,
	}, ctrl)
	if err != nil {
		s.discardArchive()
		return nil, err
	}
	s.Campaign = c
	r.logger().Info("campaign started",
		"id", s.ID,
		"candidate", c.State.You.Name,
		"district", c.State.District.Name,
		"seed", c.Seed())
	return s, nil
}

// Run plays the campaign to the end and records it. A campaign that stops
// before a terminal outcome leaves no database record.
func (s *Session) Run(ctx context.Context) (*sim.Result, error) {
	res, runErr := s.Campaign.Run(ctx)
	if err := s.Finish(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return res, runErr
}

// Finish closes the archive and, when the campaign is over, saves its record.
// It is safe to call more than once.
func (s *Session) Finish(ctx context.Context) error {
	var archiveErr error
	if s.archive != nil {
		archiveErr = s.archive.Close()
		s.archive = nil
	}

	st := s.Campaign.State
	lg := s.rec.logger()
	if !st.Over {
		lg.Warn("campaign abandoned", "id", s.ID, "week", st.Week, "phase", st.Phase.String())
		return archiveErr
	}
	lg.Info("campaign finished",
		"id", s.ID,
		"outcome", st.Result.Outcome.String(),
		"weeks", st.Result.WeeksPlayed)

	if s.rec.Store == nil {
		return archiveErr
	}
	if err := s.rec.Store.Save(ctx, s.Record()); err != nil {
		lg.Error("record campaign", "id", s.ID, "err", err)
		return err
	}
	return archiveErr
}

// Record returns the store record for a finished campaign.
func (s *Session) Record() store.Record {
	st := s.Campaign.State
	r := store.Record{
		ID:         s.ID,
		Candidate:  st.You.Name,
		Party:      st.You.Party.String(),
		District:   st.District.Name,
		Difficulty: s.setup.Difficulty.String(),
		Seed:       s.Campaign.Seed(),
		StartedAt:  s.Started,
		FinishedAt: time.Now(),
		Archive:    s.path,
	}
	if res := st.Result; res != nil {
		r.Outcome = res.Outcome
		r.PrimarySupport = res.PrimarySupport
		r.FinalSupport = res.FinalSupport
		r.Turnout = res.Turnout
		r.FinalVote = res.FinalVote
		r.WeeksPlayed = res.WeeksPlayed
	}
	return r
}

// ArchivePath is the event archive file, or "" when archiving is off.
func (s *Session) ArchivePath() string { return s.path }

func (s *Session) discardArchive() {
	if s.archive == nil {
		return
	}
	_ = s.archive.Close()
	_ = os.Remove(s.path)
	s.archive, s.path = nil, ""
}

func (r *Recorder) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
