package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/campaignx/internal/log"
	cxnet "github.com/peterkuimelis/campaignx/internal/net"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/sim"
	"github.com/peterkuimelis/campaignx/internal/store"
)

//go:embed static
var staticFiles embed.FS

// TuningInfo is the JSON representation of the rules for the /api/tuning endpoint.
type TuningInfo struct {
	Rules       *cxnet.RulesView `json:"rules"`
	DebateWeeks map[string][]int `json:"debate_weeks"`
	PollCost    int              `json:"poll_cost"`
	CanvassCost int              `json:"canvass_cost"`
	StartCash   int              `json:"starting_cash"`
}

// ResultsInfo is the JSON body of the /api/results endpoint.
type ResultsInfo struct {
	Tally     map[string]int `json:"tally"`
	Campaigns []store.Record `json:"campaigns"`
}

// Options configures a web server.
type Options struct {
	Tuning   *sim.Tuning
	Recorder *session.Recorder // Store also backs /api/results when set
	Log      *slog.Logger
}

// Server is the campaignx web UI server.
type Server struct {
	tuning   *sim.Tuning
	recorder *session.Recorder
	log      *slog.Logger
	mux      *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	s := &Server{
		tuning:   opts.Tuning,
		recorder: opts.Recorder,
		log:      opts.Log,
		mux:      http.NewServeMux(),
	}
	if s.tuning == nil {
		s.tuning = sim.DefaultTuning()
	}
	if s.recorder == nil {
		s.recorder = &session.Recorder{}
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/tuning", s.handleTuning)
	s.mux.HandleFunc("GET /api/results", s.handleResults)
	s.mux.HandleFunc("GET /api/results/{id}", s.handleResult)
	s.mux.HandleFunc("GET /api/results/{id}/events", s.handleResultEvents)

	// WebSocket campaign
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	t := s.tuning
	writeJSON(w, TuningInfo{
		Rules: cxnet.NewRulesView(t),
		DebateWeeks: map[string][]int{
			sim.PhasePrimary.String(): sim.DebateWeeks(t, sim.PhasePrimary, t.Campaign.PrimaryWeeks),
			sim.PhaseGeneral.String(): sim.DebateWeeks(t, sim.PhaseGeneral, t.Campaign.GeneralWeeks),
		},
		PollCost:    t.Poll.Cost,
		CanvassCost: t.Canvass.Cost,
		StartCash:   t.Campaign.StartingCash,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	st := s.recorder.Store
	if st == nil {
		http.Error(w, "results are not recorded", http.StatusServiceUnavailable)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := st.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("list results", "err", err)
		http.Error(w, "could not list results", http.StatusInternalServerError)
		return
	}
	tally, err := st.Tally(r.Context())
	if err != nil {
		s.log.Error("tally results", "err", err)
		http.Error(w, "could not tally results", http.StatusInternalServerError)
		return
	}

	info := ResultsInfo{Tally: make(map[string]int, len(tally)), Campaigns: recs}
	for o, n := range tally {
		info.Tally[o.String()] = n
	}
	if info.Campaigns == nil {
		info.Campaigns = []store.Record{}
	}
	writeJSON(w, info)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	st := s.recorder.Store
	if st == nil {
		http.Error(w, "results are not recorded", http.StatusServiceUnavailable)
		return store.Record{}, false
	}
	rec, err := st.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return store.Record{}, false
	}
	if err != nil {
		s.log.Error("get result", "id", r.PathValue("id"), "err", err)
		http.Error(w, "could not load result", http.StatusInternalServerError)
		return store.Record{}, false
	}
	return rec, true
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if rec, ok := s.lookup(w, r); ok {
		writeJSON(w, rec)
	}
}

func (s *Server) handleResultEvents(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if rec.Archive == "" {
		http.Error(w, "no event archive for this campaign", http.StatusNotFound)
		return
	}
	events, err := log.ReadArchive(rec.Archive)
	if err != nil {
		s.log.Error("read archive", "id", rec.ID, "err", err)
		http.Error(w, "could not read event archive", http.StatusInternalServerError)
		return
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = log.FormatEvent(e)
	}
	writeJSON(w, lines)
}

// handleWebSocket plays one campaign over the socket using the same JSON
// messages as the TCP protocol.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.Warn("websocket accept", "err", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)

	srv := &cxnet.Server{
		Tuning:   s.tuning,
		Recorder: s.recorder,
		Log:      s.log,
	}
	s.log.Info("websocket campaign", "remote", r.RemoteAddr)
	if _, err := srv.Serve(ctx, conn); err != nil {
		s.log.Info("websocket campaign ended", "remote", r.RemoteAddr, "err", err)
		wsConn.Close(websocket.StatusInternalError, "campaign stopped")
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "campaign over")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
