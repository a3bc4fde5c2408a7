package mcp

import (
	"context"

	"github.com/peterkuimelis/campaignx/internal/net"
	"github.com/peterkuimelis/campaignx/internal/sim"
)

// MCPController implements sim.Controller by sending decisions to the MCP
// session's pending channel and blocking on a response channel.
type MCPController struct {
	session    *CampaignSession
	responseCh chan ActionResponse
}

// NewMCPController creates a controller bound to a session.
func NewMCPController(session *CampaignSession) *MCPController {
	return &MCPController{
		session:    session,
		responseCh: make(chan ActionResponse),
	}
}

// ChooseAction implements sim.Controller.
func (c *MCPController) ChooseAction(ctx context.Context, status sim.Status, actions []sim.Action) (sim.Action, error) {
	pending := &PendingDecision{
		Type:    DecisionChooseAction,
		Status:  &status,
		Actions: net.NewActionViews(actions),
		actions: actions,
	}
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return sim.Action{}, ctx.Err()
	}

	select {
	case resp := <-c.responseCh:
		return resp.Action, nil
	case <-ctx.Done():
		return sim.Action{}, ctx.Err()
	}
}

// PublishStatus implements sim.Controller.
func (c *MCPController) PublishStatus(ctx context.Context, status sim.Status) error {
	c.session.setStatus(status)
	return nil
}

// PublishMemo implements sim.Controller.
func (c *MCPController) PublishMemo(ctx context.Context, memo sim.PollingMemo) error {
	c.session.addMemo(memo)
	return nil
}

// PublishEvents implements sim.Controller. Every event already reaches the
// session through its event feed, so the recent-lines digest is dropped.
func (c *MCPController) PublishEvents(ctx context.Context, lines []string) error {
	return nil
}

// PublishResult implements sim.Controller.
func (c *MCPController) PublishResult(ctx context.Context, result sim.Result) error {
	c.session.setResult(result)
	return nil
}
