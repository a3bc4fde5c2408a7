package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterkuimelis/campaignx/internal/sim"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "campaigns.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, outcome sim.Outcome, finished time.Time) Record {
	return Record{
		ID:             id,
		Candidate:      "Alex Candidate",
		Party:          "Independent",
		District:       "OH-09 Lakeshore",
		Difficulty:     "normal",
		Outcome:        outcome,
		PrimarySupport: 0.52,
		FinalSupport:   0.49,
		Turnout:        0.57,
		FinalVote:      0.495,
		WeeksPlayed:    14,
		Seed:           42,
		StartedAt:      finished.Add(-time.Minute),
		FinishedAt:     finished,
		Archive:        "/tmp/" + id + ".jsonl.zst",
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)

	want := record("a", sim.OutcomeGeneralLoss, now)
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v\nwant %+v", got, want)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)

	r := record("a", sim.OutcomePrimaryLoss, now)
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Outcome = sim.OutcomeGeneralWin
	if err := s.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != sim.OutcomeGeneralWin {
		t.Errorf("outcome = %s, want general_win", got.Outcome)
	}
}

func TestSaveRequiresID(t *testing.T) {
	s := openTemp(t)
	if err := s.Save(context.Background(), Record{}); err == nil {
		t.Error("expected an error for an empty id")
	}
}

func TestRecentAndTally(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)

	outcomes := []sim.Outcome{sim.OutcomePrimaryLoss, sim.OutcomeGeneralWin, sim.OutcomeGeneralWin, sim.OutcomeGeneralLoss}
	for i, o := range outcomes {
		id := string(rune('a' + i))
		if err := s.Save(ctx, record(id, o, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "d" || recent[1].ID != "c" {
		t.Errorf("Recent(2) ids = %v", ids(recent))
	}

	tally, err := s.Tally(ctx)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally[sim.OutcomeGeneralWin] != 2 || tally[sim.OutcomePrimaryLoss] != 1 || tally[sim.OutcomeGeneralLoss] != 1 {
		t.Errorf("tally = %v", tally)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, record("x", sim.OutcomeGeneralWin, time.Now())); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "x"); err != nil {
		t.Errorf("record lost across reopen: %v", err)
	}
}

func ids(rs []Record) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
