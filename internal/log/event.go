package log

// EventType enumerates all observable campaign events.
type EventType int

const (
	EventNote EventType = iota
	EventCampaignStart
	EventNewWeek
	EventSupportShift
	EventFundraise
	EventCanvass
	EventPolicyShift
	EventDebatePrep
	EventRest
	EventPoll
	EventEarnedMedia
	EventPaidMedia
	EventScandal
	EventOpponentStumble
	EventDebate
	EventZinger
	EventPhaseChange
	EventPrimaryResult
	EventElection
)

func (e EventType) String() string {
	switch e {
	case EventNote:
		return "Note"
	case EventCampaignStart:
		return "CampaignStart"
	case EventNewWeek:
		return "NewWeek"
	case EventSupportShift:
		return "SupportShift"
	case EventFundraise:
		return "Fundraise"
	case EventCanvass:
		return "Canvass"
	case EventPolicyShift:
		return "PolicyShift"
	case EventDebatePrep:
		return "DebatePrep"
	case EventRest:
		return "Rest"
	case EventPoll:
		return "Poll"
	case EventEarnedMedia:
		return "EarnedMedia"
	case EventPaidMedia:
		return "PaidMedia"
	case EventScandal:
		return "Scandal"
	case EventOpponentStumble:
		return "OpponentStumble"
	case EventDebate:
		return "Debate"
	case EventZinger:
		return "Zinger"
	case EventPhaseChange:
		return "PhaseChange"
	case EventPrimaryResult:
		return "PrimaryResult"
	case EventElection:
		return "Election"
	default:
		return "Unknown"
	}
}

// CampaignEvent represents a single observable event in a campaign.
type CampaignEvent struct {
	Seq     int       `json:"seq"`     // monotonic sequence number
	Week    int       `json:"week"`    // week within the phase (1-based)
	Phase   string    `json:"phase"`   // "Primary" or "General"
	Type    EventType `json:"type"`    // event type
	Details string    `json:"details"` // human-readable line, identical to the history entry
}
