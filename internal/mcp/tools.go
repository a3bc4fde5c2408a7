package mcp

import (
	"context"
	"errors"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	cxnet "github.com/peterkuimelis/campaignx/internal/net"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/sim"
)

// activeSession is the singleton campaign (one per stdio process). sessionMu
// serializes tool calls against it.
var (
	sessionMu     sync.Mutex
	activeSession *CampaignSession
)

// recorder persists finished campaigns, set by main.
var recorder *session.Recorder

// tuning is the balance table for new campaigns, set by main.
var tuning *sim.Tuning

// SetRecorder sets where finished campaigns are recorded.
func SetRecorder(r *session.Recorder) {
	recorder = r
}

// SetTuning sets the balance table used by start_campaign.
func SetTuning(t *sim.Tuning) {
	tuning = t
}

func currentTuning() *sim.Tuning {
	if tuning == nil {
		tuning = sim.DefaultTuning()
	}
	return tuning
}

// RegisterTools adds all campaign tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startCampaignTool(), handleStartCampaign)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(getCampaignStateTool(), handleGetCampaignState)
}

// --- Tool definitions ---

func startCampaignTool() mcp.Tool {
	return mcp.NewTool("start_campaign",
		mcp.WithDescription("Start a new congressional campaign: a 6-week primary (eliminated below 50% support) "+
			"followed by an 8-week general election. Stats are points spent on top of a base of 5; "+
			"the four stat fields together may use at most 20 points. Platform axes run 0-100 and default to 50. "+
			"Returns the first week's status and the list of legal actions."),
		mcp.WithString("name", mcp.Description("Candidate name")),
		mcp.WithString("party", mcp.Description("D, R or Ind")),
		mcp.WithNumber("charisma", mcp.Required(), mcp.Description("Points added to charisma")),
		mcp.WithNumber("discipline", mcp.Required(), mcp.Description("Points added to discipline")),
		mcp.WithNumber("empathy", mcp.Required(), mcp.Description("Points added to empathy")),
		mcp.WithNumber("stamina", mcp.Required(), mcp.Description("Points added to stamina")),
		mcp.WithNumber("econ", mcp.Description("0 socialist .. 100 capitalist")),
		mcp.WithNumber("social", mcp.Description("0 liberal .. 100 conservative")),
		mcp.WithNumber("governance", mcp.Description("0 legislative-first .. 100 executive-first")),
		mcp.WithNumber("tone", mcp.Description("0 message-driven .. 100 partisan attack; higher means more zingers and more backfires")),
		mcp.WithString("difficulty", mcp.Enum("easy", "normal", "hard"), mcp.Description("District difficulty")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible campaign (0 for random)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose this week's action. Pass either the 0-based index from the pending actions list "+
			"or an action key such as 'fundraise:grassroots', 'canvass', 'policy:tone:-', 'prep', 'rest' or 'poll'. "+
			"Resolves the whole week and returns its events plus the next decision."),
		mcp.WithNumber("index", mcp.Description("0-based index of the action to take from the actions list")),
		mcp.WithString("key", mcp.Description("Action key; takes precedence over index")),
	)
}

func getCampaignStateTool() mcp.Tool {
	return mcp.NewTool("get_campaign_state",
		mcp.WithDescription("Get the current status, pending decision and result without submitting an action. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartCampaign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil {
		return mcp.NewToolResultError("A campaign is already running. Only one campaign at a time is supported."), nil
	}

	t := currentTuning()
	view := cxnet.SetupView{
		Name:       request.GetString("name", ""),
		Party:      request.GetString("party", ""),
		Charisma:   request.GetInt("charisma", 0),
		Discipline: request.GetInt("discipline", 0),
		Empathy:    request.GetInt("empathy", 0),
		Stamina:    request.GetInt("stamina", 0),
		Platform:   map[string]int{},
		Difficulty: request.GetString("difficulty", ""),
	}
	// Absent axes stay at the midpoint; anything given is range-checked.
	args := request.GetArguments()
	for _, a := range sim.AllAxes {
		if _, ok := args[a.String()]; ok {
			view.Platform[a.String()] = request.GetInt(a.String(), 0)
		}
	}
	setup, err := view.Setup(t)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid candidate: %v", err), nil
	}

	sess, err := NewCampaignSession(recorder, session.Options{
		Tuning: t,
		Setup:  setup,
		Seed:   int64(request.GetInt("seed", 0)),
	})
	if errors.Is(err, sim.ErrInvalidSetup) {
		return mcp.NewToolResultErrorf("Invalid candidate: %v", err), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start campaign: %v", err), nil
	}
	activeSession = sess

	return mcp.NewToolResultText(respondJSON(sess.waitForPending())), nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No campaign is running. Use start_campaign first."), nil
	}
	sess := activeSession
	pending := sess.currentPending
	if pending == nil || pending.Type != DecisionChooseAction {
		return mcp.NewToolResultError("No pending decision."), nil
	}

	msg := cxnet.ClientMessage{
		Type:  cxnet.MsgAction,
		Index: request.GetInt("index", -1),
		Key:   request.GetString("key", ""),
	}
	action, err := cxnet.ResolveChoice(pending.actions, msg)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid action: %v", err), nil
	}

	sess.ctrl.responseCh <- ActionResponse{Action: action}

	resp := sess.waitForPending()
	if resp.Over {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetCampaignState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No campaign is running. Use start_campaign first."), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot(false))), nil
}
