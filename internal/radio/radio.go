package radio

import (
	"github.com/atcvoice/radio-registry/internal/callsign"
)

// MaxCallsignHistory defines the max. number of previously received
// callsigns kept per radio.
const MaxCallsignHistory = 5

// Radio holds a single tuned frequency.
type Radio struct {
	Frequency      int64  `json:"frequency"`
	HumanFrequency string `json:"human_frequency"`

	Callsign    string `json:"callsign"`
	Station     string `json:"station"`
	Position    string `json:"position"`
	SubPosition string `json:"sub_position"`

	RX                bool `json:"rx"`
	TX                bool `json:"tx"`
	XC                bool `json:"xc"`
	CrossCoupleAcross bool `json:"cross_couple_across"`
	OnSpeaker         bool `json:"on_speaker"`

	CurrentlyTX bool `json:"currently_tx"`
	CurrentlyRX bool `json:"currently_rx"`

	Selected         bool `json:"selected"`
	TransceiverCount int  `json:"transceiver_count"`

	// LastReceivedCallsign is empty when nothing has been received yet.
	LastReceivedCallsign string `json:"last_received_callsign,omitempty"`

	// LastReceivedCallsignHistory holds the previous values of
	// LastReceivedCallsign, newest first. It stays nil until the first
	// value is pushed.
	LastReceivedCallsignHistory []string `json:"last_received_callsign_history"`

	IsPendingDeleting bool `json:"is_pending_deleting"`
}

// RadioState holds the capability flags of a radio.
type RadioState struct {
	RX                bool `json:"rx"`
	TX                bool `json:"tx"`
	XC                bool `json:"xc"`
	CrossCoupleAcross bool `json:"xca"`
	OnSpeaker         bool `json:"on_speaker"`
}

// State holds a snapshot of the registry.
type State struct {
	Radios  []Radio `json:"radios"`
	PTTIsOn bool    `json:"ptt_is_on"`
}

// SessionProvider provides the station callsign of the local operator.
type SessionProvider interface {
	StationCallsign() string
}

// Notifier is used to alert the operator.
type Notifier interface {
	Warn(title, message string)
}

// CallsignParser splits a callsign into its station, position and
// sub-position parts.
type CallsignParser func(callsign string) (station, position, subPosition string)

// Comparator defines the order of two radios, relative to the callsign of
// the viewer. It returns a negative value when a is ordered before b, a
// positive value when a is ordered after b and 0 when both are equal.
type Comparator func(a, b Radio, viewerCallsign string) int

// CompareByCallsign is the default Comparator.
func CompareByCallsign(a, b Radio, viewerCallsign string) int {
	return callsign.Compare(a.entry(), b.entry(), viewerCallsign)
}

func (r Radio) entry() callsign.Entry {
	return callsign.Entry{
		Frequency:   r.Frequency,
		Callsign:    r.Callsign,
		Station:     r.Station,
		Position:    r.Position,
		SubPosition: r.SubPosition,
	}
}

// clone returns a copy of the radio which does not share the history slice.
// A nil history stays nil.
func (r Radio) clone() Radio {
	if r.LastReceivedCallsignHistory != nil {
		h := make([]string, len(r.LastReceivedCallsignHistory))
		copy(h, r.LastReceivedCallsignHistory)
		r.LastReceivedCallsignHistory = h
	}
	return r
}

func cloneRadios(radios []Radio) []Radio {
	out := make([]Radio, len(radios))
	for i := range radios {
		out[i] = radios[i].clone()
	}
	return out
}

// Copy returns a deep copy of the state.
func (s State) Copy() State {
	return State{
		Radios:  cloneRadios(s.Radios),
		PTTIsOn: s.PTTIsOn,
	}
}
