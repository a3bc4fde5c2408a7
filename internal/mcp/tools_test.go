package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/sim"
	"github.com/peterkuimelis/campaignx/internal/store"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func resetSession(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		activeSession = nil
		recorder = nil
		tuning = nil
	})
}

func call(t *testing.T, h handler, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return res, c.Text
	case *mcp.TextContent:
		return res, c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return nil, ""
}

func callOK(t *testing.T, h handler, args map[string]any) ToolResponse {
	t.Helper()
	res, text := call(t, h, args)
	if res.IsError {
		t.Fatalf("tool error: %s", text)
	}
	var resp ToolResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("decode %s: %v", text, err)
	}
	return resp
}

func startArgs(seed int) map[string]any {
	return map[string]any{
		"name":       "Morgan",
		"party":      "Ind",
		"charisma":   5,
		"discipline": 5,
		"empathy":    5,
		"stamina":    5,
		"tone":       70,
		"seed":       seed,
	}
}

func TestCampaignOverMCP(t *testing.T) {
	resetSession(t)
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	SetRecorder(&session.Recorder{Store: st})

	resp := callOK(t, handleStartCampaign, startArgs(17))
	if resp.CampaignID == "" || resp.Pending == nil || len(resp.Pending.Actions) != 15 {
		t.Fatalf("start response = %+v", resp)
	}
	if resp.Status == nil || resp.Status.Week != 1 || resp.Status.Platform[sim.AxisTone] != 70 {
		t.Fatalf("status = %+v", resp.Status)
	}
	if len(resp.Events) == 0 {
		t.Error("expected launch events on start")
	}
	id := resp.CampaignID

	resp = callOK(t, handleTakeAction, map[string]any{"key": "poll"})
	if len(resp.Memos) != 1 || len(resp.Memos[0].Rows) != int(sim.NumDemos) {
		t.Errorf("memos = %+v", resp.Memos)
	}

	weeks := 1
	for !resp.Over {
		resp = callOK(t, handleTakeAction, map[string]any{"key": "rest"})
		weeks++
		if weeks > 20 {
			t.Fatal("campaign never ended")
		}
	}
	if resp.Result == nil || !resp.Result.Outcome.Terminal() || resp.Result.WeeksPlayed != weeks {
		t.Fatalf("result = %+v after %d weeks", resp.Result, weeks)
	}
	if resp.Summary == "" || resp.Pending != nil {
		t.Errorf("final response = %+v", resp)
	}
	if activeSession != nil {
		t.Error("session should be cleared after the campaign ends")
	}

	rec, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Outcome != resp.Result.Outcome || rec.Candidate != "Morgan" || rec.Seed != 17 {
		t.Errorf("record = %+v", rec)
	}
}

func TestStartCampaignRejectsBadSetup(t *testing.T) {
	resetSession(t)
	args := startArgs(1)
	args["charisma"] = 30
	res, text := call(t, handleStartCampaign, args)
	if !res.IsError {
		t.Fatalf("expected an error, got %s", text)
	}
	if activeSession != nil {
		t.Error("rejected setup must not leave a session")
	}

	for _, tt := range []struct {
		axis  string
		value int
	}{
		{"tone", 140},
		{"econ", -5},
		{"governance", -1},
	} {
		args = startArgs(1)
		args[tt.axis] = tt.value
		if res, text := call(t, handleStartCampaign, args); !res.IsError {
			t.Errorf("%s=%d should be rejected, got %s", tt.axis, tt.value, text)
		}
		if activeSession != nil {
			t.Fatalf("%s=%d left a session running", tt.axis, tt.value)
		}
	}
}

func TestOneCampaignAtATime(t *testing.T) {
	resetSession(t)
	callOK(t, handleStartCampaign, startArgs(2))
	if res, _ := call(t, handleStartCampaign, startArgs(3)); !res.IsError {
		t.Error("second start_campaign should fail while one is running")
	}
}

func TestTakeActionValidation(t *testing.T) {
	resetSession(t)

	if res, _ := call(t, handleTakeAction, map[string]any{"key": "rest"}); !res.IsError {
		t.Error("take_action without a campaign should fail")
	}

	callOK(t, handleStartCampaign, startArgs(4))
	if res, _ := call(t, handleTakeAction, map[string]any{"key": "filibuster"}); !res.IsError {
		t.Error("unknown key should fail")
	}
	if res, _ := call(t, handleTakeAction, map[string]any{"index": 99}); !res.IsError {
		t.Error("out-of-range index should fail")
	}
	if res, _ := call(t, handleTakeAction, map[string]any{}); !res.IsError {
		t.Error("missing key and index should fail")
	}

	resp := callOK(t, handleTakeAction, map[string]any{"index": 13})
	if resp.Status == nil || resp.Status.Week != 2 {
		t.Errorf("after one action, status = %+v", resp.Status)
	}
}

func TestGetCampaignStateIsReadOnly(t *testing.T) {
	resetSession(t)
	if res, _ := call(t, handleGetCampaignState, nil); !res.IsError {
		t.Error("state without a campaign should fail")
	}

	callOK(t, handleStartCampaign, startArgs(5))
	first := callOK(t, handleGetCampaignState, nil)
	second := callOK(t, handleGetCampaignState, nil)
	if first.Pending == nil || second.Pending == nil || len(second.Pending.Actions) != 15 {
		t.Fatalf("pending = %+v / %+v", first.Pending, second.Pending)
	}
	if first.Status.Week != second.Status.Week || len(first.Events) != 0 {
		t.Errorf("state calls should not advance or drain: %+v", first)
	}
}
