package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/peterkuimelis/campaignx/internal/sim"
)

// Client connects to a campaign server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer

	rules   *RulesView
	status  *sim.Status
	actions []ActionView
	joined  bool
}

// NewClient wraps an established connection. Prompts read from in and
// everything is rendered to out.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server and runs the REPL until the campaign ends.
func Connect(ctx context.Context, addr string, in io.Reader, out io.Writer) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintln(out, "Connected! Waiting for the campaign office to open...")
	return NewClient(conn, in, out).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgHello:
			c.rules = msg.Rules
			if err := c.sendJoin(enc); err != nil {
				return err
			}

		case MsgError:
			fmt.Fprintf(c.out, "\n! %s\n", msg.Message)
			if !c.joined {
				if err := c.sendJoin(enc); err != nil {
					return err
				}
				continue
			}
			if err := c.sendAction(enc); err != nil {
				return err
			}

		case MsgWelcome:
			c.joined = true
			fmt.Fprintln(c.out)
			if msg.Message != "" {
				fmt.Fprintln(c.out, msg.Message)
			}
			fmt.Fprintf(c.out, "Campaign ID: %s\n", msg.CampaignID)

		case MsgStatus:
			c.status = msg.Status
			c.renderStatus(msg.Status)

		case MsgChooseAction:
			if msg.Status != nil {
				c.status = msg.Status
			}
			c.actions = msg.Actions
			if err := c.sendAction(enc); err != nil {
				return err
			}

		case MsgMemo:
			c.renderMemo(msg.Memo)

		case MsgEvents:
			c.renderEvents(msg.Events)

		case MsgResult:
			c.renderResult(msg.Result)
			return nil
		}
	}
}

func (c *Client) sendJoin(enc *json.Encoder) error {
	setup, err := c.createCandidate()
	if err != nil {
		return err
	}
	if err := enc.Encode(ClientMessage{Type: MsgJoin, Setup: &setup}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	return nil
}

func (c *Client) sendAction(enc *json.Encoder) error {
	key, err := c.chooseAction()
	if err != nil {
		return err
	}
	if err := enc.Encode(ClientMessage{Type: MsgAction, Key: key}); err != nil {
		return fmt.Errorf("send action: %w", err)
	}
	return nil
}

// readLine prompts and returns one trimmed line of input.
func (c *Client) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// --- Candidate creation ---

type axisPrompt struct {
	label, left, right, desc string
}

var axisPrompts = [sim.NumAxes]axisPrompt{
	sim.AxisEcon:       {"Econ", "socialist", "capitalist", "Economic orientation: redistribution and public ownership vs. free markets."},
	sim.AxisSocial:     {"Social", "liberal", "conservative", "Cultural policy: progressive change vs. traditional values."},
	sim.AxisGovernance: {"Governance", "legislative-first", "executive-first", "How you would wield power: coalition building vs. decisive executive action."},
	sim.AxisTone:       {"Tone", "message-driven", "partisan attack", "Campaign style. Higher values make zingers and viral moments likelier, and backlash too."},
}

func (c *Client) createCandidate() (SetupView, error) {
	rules := c.rules
	if rules == nil {
		rules = NewRulesView(sim.DefaultTuning())
	}

	fmt.Fprintln(c.out, "Welcome to the campaign office.")
	var v SetupView
	var err error
	if v.Difficulty, err = c.readLine("Difficulty (easy/normal/hard)> "); err != nil {
		return v, err
	}
	if v.Name, err = c.readLine("Candidate name> "); err != nil {
		return v, err
	}
	if v.Party, err = c.readLine("Party (D/R/Ind)> "); err != nil {
		return v, err
	}

	fmt.Fprintf(c.out, "\nAllocate %d points among stats (charisma, discipline, empathy, stamina).\n", rules.StatPoints)
	points := rules.StatPoints
	for _, stat := range []struct {
		name string
		dst  *int
	}{
		{"charisma", &v.Charisma},
		{"discipline", &v.Discipline},
		{"empathy", &v.Empathy},
		{"stamina", &v.Stamina},
	} {
		n, err := c.readStat(stat.name, rules.StatBase, points)
		if err != nil {
			return v, err
		}
		*stat.dst = n
		points -= n
	}
	if points > 0 {
		fmt.Fprintf(c.out, "\nRemaining unspent points (ignored): %d\n", points)
	}

	fmt.Fprintln(c.out, "\nSet your campaign platform, one axis at a time.")
	v.Platform = make(map[string]int, sim.NumAxes)
	for _, a := range sim.AllAxes {
		n, err := c.readAxis(axisPrompts[a], rules.AxisMin, rules.AxisMax)
		if err != nil {
			return v, err
		}
		v.Platform[a.String()] = n
	}
	return v, nil
}

func (c *Client) readStat(name string, base, remaining int) (int, error) {
	for {
		line, err := c.readLine(fmt.Sprintf("%s (current %d, +0..+%d)> ", name, base, remaining))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(c.out, "Enter a number.")
			continue
		}
		if n < 0 || n > remaining {
			fmt.Fprintln(c.out, "Out of range.")
			continue
		}
		return n, nil
	}
}

func (c *Client) readAxis(p axisPrompt, lo, hi int) (int, error) {
	mid := (lo + hi) / 2
	fmt.Fprintf(c.out, "\n%s stance\n%s\nScale: %s (%d) -> %s (%d)\n", p.label, p.desc, p.left, lo, p.right, hi)
	for {
		line, err := c.readLine(fmt.Sprintf("Enter value [%d-%d, default %d]> ", lo, hi, mid))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return mid, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < lo || n > hi {
			fmt.Fprintf(c.out, "Enter a whole number %d-%d.\n", lo, hi)
			continue
		}
		return n, nil
	}
}

// --- Weekly action ---

var menu = []struct {
	key, label string
}{
	{"fundraise:corporate", "Fundraise (corporate)"},
	{"fundraise:grassroots", "Fundraise (grassroots)"},
	{"fundraise:mixed", "Fundraise (mixed)"},
	{"canvass", "Canvass / field operation (costs cash)"},
	{"policy", "Policy shift"},
	{"prep", "Debate prep"},
	{"rest", "Rest"},
	{"poll", "Polling memo (costs cash)"},
}

// chooseAction shows the weekly menu and returns the picked action key. A
// full key from the offered list (e.g. "policy:tone:-") is accepted as-is.
func (c *Client) chooseAction() (string, error) {
	for {
		fmt.Fprintln(c.out, "\nChoose ONE action this week:")
		for i, m := range menu {
			fmt.Fprintf(c.out, "  %d) %s\n", i+1, m.label)
		}
		fmt.Fprintf(c.out, "  %d) Explain actions\n", len(menu)+1)

		line, err := c.readLine("> ")
		if err != nil {
			return "", err
		}
		if line == "?" || line == strconv.Itoa(len(menu)+1) {
			c.explainActions()
			continue
		}
		for _, a := range c.actions {
			if strings.EqualFold(line, a.Key) {
				return a.Key, nil
			}
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(menu) {
			fmt.Fprintf(c.out, "Enter 1-%d.\n", len(menu))
			continue
		}
		if key := menu[n-1].key; key != "policy" {
			return key, nil
		}
		return c.policyMenu()
	}
}

func (c *Client) policyMenu() (string, error) {
	fmt.Fprintln(c.out, "\nPolicy shift: pick an axis to nudge (+ or -).")
	fmt.Fprintln(c.out, "  econ | social | governance | tone")
	axis, err := c.readLine("Axis> ")
	if err != nil {
		return "", err
	}
	fmt.Fprintln(c.out, "Direction?")
	fmt.Fprintln(c.out, "  1) Nudge up (toward 100)")
	fmt.Fprintln(c.out, "  2) Nudge down (toward 0)")
	d, err := c.readLine("> ")
	if err != nil {
		return "", err
	}
	sign := "-"
	if d == "1" {
		sign = "+"
	}
	return "policy:" + strings.ToLower(axis) + ":" + sign, nil
}

var explanations = [][]string{
	{"Biggest cash haul on average.", "Costs a little enthusiasm and momentum: voters notice who pays."},
	{"Smaller checks than corporate money.", "Lifts enthusiasm and nudges momentum up."},
	{"Moderate cash with milder side effects.", "The safe pick when unsure."},
	{"Spends cash on a ground game that moves support.", "Raises enthusiasm and name recognition, and compounds in close races."},
	{"Moves one platform axis by a few points.", "Mostly changes momentum and future debate and virality odds.", "Higher tone means more zingers and more backfires."},
	{"Banks a bonus for the next debate and adds fatigue.", "Best the week before a scheduled debate."},
	{"Sheds fatigue so the next weeks go smoother."},
	{"Costs cash and the week.", "Shows support by demographic and how each feeds the overall number."},
}

func (c *Client) explainActions() {
	phase, weeks := "", "None"
	if c.status != nil {
		phase = c.status.Phase.String()
		if len(c.status.DebateWeeks) > 0 {
			parts := make([]string, len(c.status.DebateWeeks))
			for i, w := range c.status.DebateWeeks {
				parts[i] = strconv.Itoa(w)
			}
			weeks = strings.Join(parts, ", ")
		}
	}
	fmt.Fprintln(c.out, "\nACTION EXPLANATIONS")
	fmt.Fprintf(c.out, "Scheduled debate weeks this phase (%s): %s\n\n", phase, weeks)
	for i, m := range menu {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, m.label)
		for _, line := range explanations[i] {
			fmt.Fprintf(c.out, "     * %s\n", line)
		}
		fmt.Fprintln(c.out)
	}
}

// --- Rendering ---

var rule = strings.Repeat("=", 60)

func (c *Client) renderStatus(st *sim.Status) {
	if st == nil {
		return
	}
	fmt.Fprintln(c.out, "\n"+rule)
	fmt.Fprintf(c.out, "Week %d/%d | %s\n", st.Week, st.WeeksInPhase, st.Phase)
	fmt.Fprintf(c.out, "Support: %s | Cash: $%dk | Name ID: %s\n", sim.Pct(st.Support), st.Cash, sim.Pct(st.NameID))
	fmt.Fprintf(c.out, "Momentum: %+.2f | Fatigue: %.1f | Enthusiasm: %s\n", st.Momentum, st.Fatigue, sim.Pct(st.Enthusiasm))
	if st.EarnedMedia > 0.01 {
		fmt.Fprintf(c.out, "Earned media (lingering): %.2f\n", st.EarnedMedia)
	}
	fmt.Fprintf(c.out, "Opponent: %s\n", st.Opponent)
	switch {
	case st.NextDebate == st.Week:
		fmt.Fprintln(c.out, "Debate: THIS WEEK")
	case st.NextDebate > 0:
		fmt.Fprintf(c.out, "Next debate: week %d\n", st.NextDebate)
	}
	if st.Prepared {
		fmt.Fprintln(c.out, "Debate prep: banked")
	}
	fmt.Fprintf(c.out, "Weeks left in phase: %d\n", st.WeeksLeft)
	fmt.Fprintln(c.out, rule)
}

func (c *Client) renderMemo(m *sim.PollingMemo) {
	if m == nil {
		return
	}
	fmt.Fprintln(c.out, "\n"+rule)
	fmt.Fprintf(c.out, "POLLING MEMO | %s (Cost: $%dk)\n", m.Phase, m.Cost)
	fmt.Fprintf(c.out, "District: %s\n", m.District)
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
	fmt.Fprintf(c.out, "Overall support (weighted): %s\n", sim.Pct(m.Overall))
	fmt.Fprintln(c.out, "\nDemographic breakdown:")
	fmt.Fprintf(c.out, "%-10s %9s %9s %13s\n", "Demo", "District%", "Support", "Contribution")
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
	for _, r := range m.Rows {
		fmt.Fprintf(c.out, "%-10s %8.1f%% %8.1f%% %12.2f%%\n", r.Demo, r.Share*100, r.Support*100, r.Contribution*100)
	}
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
	fmt.Fprintln(c.out, "Tip: work the big segments, or the ones where you are underwater.")
	fmt.Fprintln(c.out, rule)
}

func (c *Client) renderEvents(lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\nRecent events:")
	for _, l := range lines {
		fmt.Fprintf(c.out, " - %s\n", l)
	}
}

func (c *Client) renderResult(r *sim.Result) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	fmt.Fprintln(c.out, "          CAMPAIGN OVER")
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	if r == nil {
		return
	}
	fmt.Fprintln(c.out, ResultSummary(*r))
	fmt.Fprintln(c.out, "═══════════════════════════════════")
}

// ResultSummary is the one-paragraph verdict shown to players.
func ResultSummary(r sim.Result) string {
	var sb strings.Builder
	switch r.Outcome {
	case sim.OutcomePrimaryLoss:
		fmt.Fprintf(&sb, "Lost the primary with %s support.", sim.Pct(r.PrimarySupport))
	case sim.OutcomeGeneralWin:
		fmt.Fprintf(&sb, "Won the general election: %s of the vote on %s turnout.", sim.Pct(r.FinalVote), sim.Pct(r.Turnout))
	case sim.OutcomeGeneralLoss:
		fmt.Fprintf(&sb, "Lost the general election: %s of the vote on %s turnout.", sim.Pct(r.FinalVote), sim.Pct(r.Turnout))
	default:
		sb.WriteString("The campaign ended without a result.")
	}
	fmt.Fprintf(&sb, "\nWeeks campaigned: %d. Seed: %d.", r.WeeksPlayed, r.Seed)
	return sb.String()
}
