// Package events maps the events reported by the network backends onto the
// radio registry.
package events

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/logging"
	"github.com/atcvoice/radio-registry/internal/radio"
)

// Type defines the event type.
type Type string

// Event types.
const (
	StationAdded    Type = "station_added"
	StationRemoved  Type = "station_removed"
	StationState    Type = "station_state"
	StationSelected Type = "station_selected"
	PendingDeletion Type = "pending_deletion"
	RXBegin         Type = "rx_begin"
	RXEnd           Type = "rx_end"
	PTT             Type = "ptt"
	Transceivers    Type = "transceivers"
	Session         Type = "session"
	Reset           Type = "reset"
)

const rxCountCounter = "rx_count"

// errors
var (
	ErrUnknownEventType = errors.New("unknown event type")
)

// FrequencyEvent is used by the events which only refer to a frequency.
type FrequencyEvent struct {
	Frequency int64 `json:"frequency"`
}

// StationAddedEvent is sent when a station has been tuned.
type StationAddedEvent struct {
	Frequency int64  `json:"frequency"`
	Callsign  string `json:"callsign"`
}

// StationStateEvent contains the capability flags of a station.
type StationStateEvent struct {
	Frequency int64 `json:"frequency"`
	radio.RadioState
}

// PendingDeletionEvent (un)marks a station for deletion.
type PendingDeletionEvent struct {
	Frequency int64 `json:"frequency"`
	Value     bool  `json:"value"`
}

// RXBeginEvent is sent when a transmission is being received.
type RXBeginEvent struct {
	Frequency int64  `json:"frequency"`
	Callsign  string `json:"callsign"`
}

// PTTEvent contains the push-to-talk state.
type PTTEvent struct {
	Active bool `json:"active"`
}

// TransceiversEvent contains the transceiver count of a station.
type TransceiversEvent struct {
	Callsign string `json:"callsign"`
	Count    int    `json:"count"`
}

// SessionEvent contains the callsign of the local operator.
type SessionEvent struct {
	Callsign string `json:"callsign"`
}

// Registry defines the registry operations used by the Handler.
type Registry interface {
	AddRadio(frequency int64, callsign, stationCallsign string) error
	RemoveRadio(frequency int64)
	SelectRadio(frequency int64)
	SetLastReceivedCallsign(frequency int64, callsign string)
	SetTransceiverCountForStationCallsign(callsign string, count int)
	SetCurrentlyTx(value bool)
	SetCurrentlyRx(frequency int64, value bool)
	SetPendingDeletion(frequency int64, value bool)
	SetRadioState(frequency int64, state radio.RadioState)
	Reset()
}

// SessionStore defines the session operations used by the Handler.
type SessionStore interface {
	StationCallsign() string
	SetStationCallsign(callsign string)
}

// ActivityRecorder records the activity of a frequency.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, frequency int64, counter string) error
}

// Handler applies events to the registry.
type Handler struct {
	registry Registry
	session  SessionStore
	activity ActivityRecorder
}

// NewHandler creates a new Handler.
func NewHandler(r Registry, s SessionStore) *Handler {
	return &Handler{
		registry: r,
		session:  s,
	}
}

// SetActivityRecorder sets the recorder of the reception activity.
func (h *Handler) SetActivityRecorder(a ActivityRecorder) {
	h.activity = a
}

// Handle decodes the given payload and applies it to the registry.
//
// An rx_begin event is applied as two registry mutations, SetCurrentlyRx
// followed by SetLastReceivedCallsign. Subscribers therefore first see
// the radio receiving with the previous last received callsign, then the
// new callsign.
func (h *Handler) Handle(ctx context.Context, typ Type, payload []byte) error {
	ctx, err := logging.NewContext(ctx)
	if err != nil {
		return errors.Wrap(err, "new context error")
	}

	log.WithFields(log.Fields{
		"type":   typ,
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}).Debug("events: handling event")

	switch typ {
	case StationAdded:
		var pl StationAddedEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		err := h.registry.AddRadio(pl.Frequency, pl.Callsign, h.session.StationCallsign())
		if err != nil && errors.Cause(err) != radio.ErrAlreadyExists {
			return errors.Wrap(err, "add radio error")
		}
	case StationRemoved:
		var pl FrequencyEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.RemoveRadio(pl.Frequency)
	case StationState:
		var pl StationStateEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetRadioState(pl.Frequency, pl.RadioState)
	case StationSelected:
		var pl FrequencyEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SelectRadio(pl.Frequency)
	case PendingDeletion:
		var pl PendingDeletionEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetPendingDeletion(pl.Frequency, pl.Value)
	case RXBegin:
		var pl RXBeginEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetCurrentlyRx(pl.Frequency, true)
		h.registry.SetLastReceivedCallsign(pl.Frequency, pl.Callsign)
		h.recordActivity(ctx, pl.Frequency, rxCountCounter)
	case RXEnd:
		var pl FrequencyEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetCurrentlyRx(pl.Frequency, false)
	case PTT:
		var pl PTTEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetCurrentlyTx(pl.Active)
	case Transceivers:
		var pl TransceiversEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.registry.SetTransceiverCountForStationCallsign(pl.Callsign, pl.Count)
	case Session:
		var pl SessionEvent
		if err := decode(payload, &pl); err != nil {
			return err
		}
		h.session.SetStationCallsign(pl.Callsign)
	case Reset:
		h.registry.Reset()
	default:
		return errors.Wrapf(ErrUnknownEventType, "type: %s", typ)
	}

	return nil
}

// recordActivity records the given counter. Failures are logged only, as
// the activity counters are not part of the registry state.
func (h *Handler) recordActivity(ctx context.Context, frequency int64, counter string) {
	if h.activity == nil {
		return
	}

	if err := h.activity.RecordActivity(ctx, frequency, counter); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"frequency": frequency,
			"counter":   counter,
			"ctx_id":    ctx.Value(logging.ContextIDKey),
		}).Error("events: record activity error")
	}
}

func decode(payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return errors.Wrap(err, "unmarshal event error")
	}
	return nil
}
