package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/peterkuimelis/campaignx/internal/sim"
)

// NetworkController implements sim.Controller over a stream connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message, giving up when ctx ends. Must be called with mu held.
func (nc *NetworkController) recv(ctx context.Context) (ClientMessage, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = nc.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var msg ClientMessage
	if err := nc.dec.Decode(&msg); err != nil {
		if ctx.Err() != nil {
			return msg, ctx.Err()
		}
		return msg, err
	}
	return msg, nil
}

// Send writes one message outside the campaign loop (hello, welcome, errors).
func (nc *NetworkController) Send(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(msg)
}

// Recv reads one message outside the campaign loop.
func (nc *NetworkController) Recv(ctx context.Context) (ClientMessage, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.recv(ctx)
}

// ChooseAction implements sim.Controller. Unusable replies get an "error"
// message and the prompt is repeated.
func (nc *NetworkController) ChooseAction(ctx context.Context, status sim.Status, actions []sim.Action) (sim.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:    MsgChooseAction,
		Status:  &status,
		Actions: NewActionViews(actions),
	}
	if err := nc.send(msg); err != nil {
		return sim.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	for {
		resp, err := nc.recv(ctx)
		if err != nil {
			return sim.Action{}, fmt.Errorf("recv action: %w", err)
		}
		a, err := ResolveChoice(actions, resp)
		if err == nil {
			return a, nil
		}
		if err := nc.send(ServerMessage{Type: MsgError, Message: err.Error()}); err != nil {
			return sim.Action{}, fmt.Errorf("send error: %w", err)
		}
	}
}

// PublishStatus implements sim.Controller.
func (nc *NetworkController) PublishStatus(ctx context.Context, status sim.Status) error {
	return nc.Send(ServerMessage{Type: MsgStatus, Status: &status})
}

// PublishMemo implements sim.Controller.
func (nc *NetworkController) PublishMemo(ctx context.Context, memo sim.PollingMemo) error {
	return nc.Send(ServerMessage{Type: MsgMemo, Memo: &memo})
}

// PublishEvents implements sim.Controller.
func (nc *NetworkController) PublishEvents(ctx context.Context, lines []string) error {
	return nc.Send(ServerMessage{Type: MsgEvents, Events: lines})
}

// PublishResult implements sim.Controller.
func (nc *NetworkController) PublishResult(ctx context.Context, result sim.Result) error {
	return nc.Send(ServerMessage{Type: MsgResult, Result: &result})
}

// ErrClosed is returned by the handshake when the client hangs up.
var ErrClosed = errors.New("client closed the connection")
