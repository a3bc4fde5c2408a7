package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/campaignx/internal/log"
	cxnet "github.com/peterkuimelis/campaignx/internal/net"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/sim"
)

// DecisionType identifies what the campaign engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionCampaignOver DecisionType = "campaign_over"
)

// PendingDecision represents a decision the campaign engine is waiting for.
type PendingDecision struct {
	Type    DecisionType
	Status  *sim.Status
	Actions []cxnet.ActionView

	actions []sim.Action
}

// ActionResponse is sent back from take_action to the blocked controller.
type ActionResponse struct {
	Action sim.Action
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	CampaignID string            `json:"campaign_id,omitempty"`
	Events     []string          `json:"events"`
	Memos      []sim.PollingMemo `json:"memos,omitempty"`
	Status     *sim.Status       `json:"status,omitempty"`
	Pending    *PendingView      `json:"pending,omitempty"`
	Over       bool              `json:"campaign_over"`
	Result     *sim.Result       `json:"result,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type    DecisionType       `json:"type"`
	Actions []cxnet.ActionView `json:"actions,omitempty"`
}

// eventFeed collects event lines from the engine goroutine until a tool
// handler drains them.
type eventFeed struct {
	mu  sync.Mutex
	mem log.MemoryLogger
	buf []string
}

func (f *eventFeed) Log(event log.CampaignEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.Log(event)
	f.buf = append(f.buf, log.FormatEvent(f.mem.LastEvent()))
}

func (f *eventFeed) Events() []log.CampaignEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]log.CampaignEvent(nil), f.mem.Events()...)
}

func (f *eventFeed) drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.buf
	f.buf = nil
	if out == nil {
		out = []string{}
	}
	return out
}

// CampaignSession holds the state of a single MCP-driven campaign.
type CampaignSession struct {
	sess *session.Session
	ctrl *MCPController
	feed *eventFeed

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu     sync.Mutex
	memos  []sim.PollingMemo
	status *sim.Status
	over   bool
	result *sim.Result
	err    error
}

// NewCampaignSession builds the campaign and starts it in a goroutine. The
// engine immediately blocks waiting for the first action.
func NewCampaignSession(rec *session.Recorder, opts session.Options) (*CampaignSession, error) {
	cs := &CampaignSession{
		feed:      &eventFeed{},
		pendingCh: make(chan *PendingDecision, 1),
	}
	cs.ctrl = NewMCPController(cs)
	opts.Logger = cs.feed

	sess, err := rec.Start(opts, cs.ctrl)
	if err != nil {
		return nil, err
	}
	cs.sess = sess

	go func() {
		res, err := sess.Run(context.Background())

		cs.mu.Lock()
		cs.over = true
		if res != nil {
			cs.result = res
		}
		cs.err = err
		cs.mu.Unlock()

		cs.pendingCh <- &PendingDecision{Type: DecisionCampaignOver}
	}()
	return cs, nil
}

// ID returns the campaign ID.
func (s *CampaignSession) ID() string { return s.sess.ID }

func (s *CampaignSession) addMemo(m sim.PollingMemo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memos = append(s.memos, m)
}

func (s *CampaignSession) setStatus(st sim.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = &st
}

func (s *CampaignSession) setResult(r sim.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &r
}

// waitForPending blocks until the next decision arrives from the engine,
// then builds a ToolResponse with the events since the last call.
func (s *CampaignSession) waitForPending() *ToolResponse {
	pending := <-s.pendingCh
	s.currentPending = pending
	return s.snapshot(true)
}

// snapshot reports the session without blocking. Events are consumed only
// when drain is set.
func (s *CampaignSession) snapshot(drain bool) *ToolResponse {
	resp := &ToolResponse{CampaignID: s.ID(), Events: []string{}}
	if drain {
		resp.Events = s.feed.drain()
	}

	s.mu.Lock()
	if drain {
		resp.Memos = s.memos
		s.memos = nil
	}
	resp.Status = s.status
	resp.Over = s.over
	resp.Result = s.result
	if s.err != nil {
		resp.Error = s.err.Error()
	}
	s.mu.Unlock()

	if resp.Result != nil {
		resp.Summary = cxnet.ResultSummary(*resp.Result)
	}
	if p := s.currentPending; p != nil && p.Type == DecisionChooseAction && !resp.Over {
		resp.Status = p.Status
		resp.Pending = &PendingView{Type: p.Type, Actions: p.Actions}
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
