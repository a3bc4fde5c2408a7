package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/peterkuimelis/campaignx/internal/log"
	"github.com/peterkuimelis/campaignx/internal/session"
	"github.com/peterkuimelis/campaignx/internal/sim"
)

// Server hosts one campaign for one client.
type Server struct {
	Port     string
	Tuning   *sim.Tuning       // nil uses the embedded table
	Recorder *session.Recorder // nil records nothing
	Seed     int64             // 0 for random
	Console  log.EventLogger   // optional host-side event sink
	Log      *slog.Logger
}

func (s *Server) tuning() *sim.Tuning {
	if s.Tuning == nil {
		s.Tuning = sim.DefaultTuning()
	}
	return s.Tuning
}

func (s *Server) logger() *slog.Logger {
	if s.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Log
}

// Run listens on Port, waits for one client to join, then runs its campaign.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	s.logger().Info("waiting for a candidate", "addr", ln.Addr().String())
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	s.logger().Info("candidate connected", "remote", conn.RemoteAddr().String())
	_, err = s.Serve(ctx, conn)
	return err
}

// Serve runs the handshake and the whole campaign on an established
// connection. The client gets "hello", answers with "join", and is asked
// again after an "error" until its setup is valid.
func (s *Server) Serve(ctx context.Context, conn net.Conn) (*sim.Result, error) {
	nc := NewNetworkController(conn)
	t := s.tuning()

	if err := nc.Send(ServerMessage{Type: MsgHello, Rules: NewRulesView(t)}); err != nil {
		return nil, fmt.Errorf("send hello: %w", err)
	}
	sess, err := s.join(ctx, nc, t)
	if err != nil {
		return nil, err
	}

	welcome := ServerMessage{Type: MsgWelcome, CampaignID: sess.ID}
	if h := sess.Campaign.State.History; len(h) > 0 {
		welcome.Message = h[0]
	}
	if err := nc.Send(welcome); err != nil {
		_ = sess.Finish(ctx)
		return nil, fmt.Errorf("send welcome: %w", err)
	}

	res, err := sess.Run(ctx)
	if err != nil {
		s.logger().Warn("campaign stopped", "id", sess.ID, "err", err)
		return res, fmt.Errorf("campaign %s: %w", sess.ID, err)
	}
	return res, nil
}

func (s *Server) join(ctx context.Context, nc *NetworkController, t *sim.Tuning) (*session.Session, error) {
	for {
		msg, err := nc.Recv(ctx)
		if errors.Is(err, io.EOF) {
			return nil, ErrClosed
		}
		if err != nil {
			return nil, fmt.Errorf("read join message: %w", err)
		}
		if msg.Type != MsgJoin || msg.Setup == nil {
			if err := nc.Send(ServerMessage{Type: MsgError, Message: "expected a join message with a setup"}); err != nil {
				return nil, fmt.Errorf("send error: %w", err)
			}
			continue
		}

		setup, err := msg.Setup.Setup(t)
		var sess *session.Session
		if err == nil {
			sess, err = s.Recorder.Start(session.Options{
				Tuning: t,
				Setup:  setup,
				Seed:   s.Seed,
				Logger: s.Console,
			}, nc)
		}
		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, sim.ErrInvalidSetup):
			s.logger().Info("rejected setup", "err", err)
			if err := nc.Send(ServerMessage{Type: MsgError, Message: err.Error()}); err != nil {
				return nil, fmt.Errorf("send error: %w", err)
			}
		default:
			return nil, err
		}
	}
}

// PlayLocal runs the server and a terminal client in one process, joined by
// an in-memory pipe.
func (s *Server) PlayLocal(ctx context.Context, in io.Reader, out io.Writer) (*sim.Result, error) {
	clientConn, serverConn := net.Pipe()

	type served struct {
		res *sim.Result
		err error
	}
	done := make(chan served, 1)
	go func() {
		defer serverConn.Close()
		res, err := s.Serve(ctx, serverConn)
		done <- served{res, err}
	}()

	replErr := NewClient(clientConn, in, out).RunREPL(ctx)
	clientConn.Close()

	srv := <-done
	if srv.err != nil {
		return srv.res, srv.err
	}
	return srv.res, replErr
}
