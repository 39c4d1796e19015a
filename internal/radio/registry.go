// Package radio implements the registry of tuned radios.
package radio

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/callsign"
	"github.com/atcvoice/radio-registry/internal/frequency"
)

type subscriber struct {
	id uuid.UUID
	fn func(State)
}

// Registry holds the ordered list of radios and the push-to-talk state.
//
// All mutations are serialized. After every mutation that changed the
// registry, the subscribers receive a snapshot of the new state, in the
// order the mutations were applied. Subscribers may read the registry from
// within their callback, but must not mutate it.
type Registry struct {
	mu      sync.RWMutex
	radios  []Radio
	index   map[int64]int
	pttIsOn bool

	session  SessionProvider
	notifier Notifier
	parse    CallsignParser
	compare  Comparator

	// notifyMu serializes mutations together with their delivery. It is
	// always acquired before mu and held until delivery has finished, while
	// mu is released before the subscribers are called.
	notifyMu    sync.Mutex
	subMu       sync.RWMutex
	subscribers []subscriber
}

// NewRegistry creates a new, empty Registry.
func NewRegistry(session SessionProvider, notifier Notifier) *Registry {
	return &Registry{
		index:    make(map[int64]int),
		session:  session,
		notifier: notifier,
		parse:    callsign.Parse,
		compare:  CompareByCallsign,
	}
}

// SetCallsignParser sets the parser used to split the callsign of added
// radios.
func (r *Registry) SetCallsignParser(p CallsignParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parse = p
}

// SetComparator sets the comparator used to order the radios on add.
func (r *Registry) SetComparator(c Comparator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compare = c
}

// AddRadio adds a radio for the given frequency and re-sorts the registry
// relative to stationCallsign. When the frequency is already present, the
// operator is notified and ErrAlreadyExists is returned.
func (r *Registry) AddRadio(freq int64, cs, stationCallsign string) error {
	var exists bool

	r.update("add", func() bool {
		if _, exists = r.index[freq]; exists {
			return false
		}

		station, position, subPosition := r.parse(cs)
		r.radios = append(r.radios, Radio{
			Frequency:      freq,
			HumanFrequency: frequency.HzToDisplayString(freq),
			Callsign:       cs,
			Station:        station,
			Position:       position,
			SubPosition:    subPosition,
		})

		viewer := stationCallsign
		sort.SliceStable(r.radios, func(i, j int) bool {
			return r.compare(r.radios[i], r.radios[j], viewer) < 0
		})
		r.reindex()
		return true
	})

	fields := log.Fields{
		"frequency": freq,
		"callsign":  cs,
	}

	if exists {
		duplicateFrequencyCounter().Inc()
		log.WithFields(fields).Warning("radio: frequency already exists")
		if r.notifier != nil {
			r.notifier.Warn(
				"Duplicate frequency",
				fmt.Sprintf("A radio on %s MHz (%s) already exists.", frequency.HzToDisplayString(freq), cs),
			)
		}
		return ErrAlreadyExists
	}

	log.WithFields(fields).Info("radio: radio added")
	return nil
}

// RemoveRadio removes the radio with the given frequency. Removing an
// unknown frequency is a no-op.
func (r *Registry) RemoveRadio(freq int64) {
	r.update("remove", func() bool {
		i, ok := r.index[freq]
		if !ok {
			return false
		}

		radios := make([]Radio, 0, len(r.radios)-1)
		radios = append(radios, r.radios[:i]...)
		radios = append(radios, r.radios[i+1:]...)
		r.radios = radios
		r.reindex()

		log.WithField("frequency", freq).Info("radio: radio removed")
		return true
	})
}

// SelectRadio selects the radio with the given frequency and de-selects all
// others. When the frequency is not present, no radio is selected.
func (r *Registry) SelectRadio(freq int64) {
	r.update("select", func() bool {
		for i := range r.radios {
			r.radios[i].Selected = r.radios[i].Frequency == freq
		}
		return true
	})
}

// GetSelectedRadio returns the selected radio. The bool is false when no
// radio is selected.
func (r *Registry) GetSelectedRadio() (Radio, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.radios {
		if r.radios[i].Selected {
			return r.radios[i].clone(), true
		}
	}
	return Radio{}, false
}

// GetRadio returns the radio for the given frequency.
func (r *Registry) GetRadio(freq int64) (Radio, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[freq]
	if !ok {
		return Radio{}, false
	}
	return r.radios[i].clone(), true
}

// IsRadioUnique returns true when no radio exists for the given frequency.
func (r *Registry) IsRadioUnique(freq int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[freq]
	return !ok
}

// IsInactive returns true when the frequency is not present, or when both
// RX and TX are disabled for it.
func (r *Registry) IsInactive(freq int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[freq]
	if !ok {
		return true
	}
	return !r.radios[i].RX && !r.radios[i].TX
}

// SetLastReceivedCallsign sets the last received callsign for the given
// frequency. The previous value is pushed onto the history. Callsigns
// matching the station callsign of the local operator are ignored.
func (r *Registry) SetLastReceivedCallsign(freq int64, cs string) {
	if r.session != nil && cs == r.session.StationCallsign() {
		return
	}

	r.update("set_last_received_callsign", func() bool {
		return r.modify(freq, func(rd Radio) Radio {
			if rd.LastReceivedCallsign != "" {
				h := make([]string, 0, len(rd.LastReceivedCallsignHistory)+1)
				h = append(h, rd.LastReceivedCallsign)
				h = append(h, rd.LastReceivedCallsignHistory...)
				if len(h) > MaxCallsignHistory {
					h = h[:MaxCallsignHistory]
				}
				rd.LastReceivedCallsignHistory = h
			}
			rd.LastReceivedCallsign = cs

			log.WithFields(log.Fields{
				"frequency": freq,
				"callsign":  cs,
			}).Debug("radio: last received callsign updated")
			return rd
		})
	})
}

// SetTransceiverCountForStationCallsign sets the transceiver count on every
// radio controlled by the given callsign.
func (r *Registry) SetTransceiverCountForStationCallsign(cs string, count int) {
	r.update("set_transceiver_count", func() bool {
		var updated int
		for i := range r.radios {
			if r.radios[i].Callsign == cs {
				r.radios[i].TransceiverCount = count
				updated++
			}
		}

		if updated != 0 {
			log.WithFields(log.Fields{
				"callsign": cs,
				"count":    count,
				"radios":   updated,
			}).Debug("radio: transceiver count updated")
		}
		return updated != 0
	})
}

// SetCurrentlyTx sets the push-to-talk state and the transmit activity of
// every radio with TX enabled.
func (r *Registry) SetCurrentlyTx(value bool) {
	r.update("set_currently_tx", func() bool {
		r.pttIsOn = value
		for i := range r.radios {
			if r.radios[i].TX {
				r.radios[i].CurrentlyTX = value
			}
		}

		log.WithField("ptt", value).Debug("radio: push-to-talk updated")
		return true
	})
}

// SetCurrentlyRx sets the receive activity of the given frequency.
func (r *Registry) SetCurrentlyRx(freq int64, value bool) {
	r.update("set_currently_rx", func() bool {
		return r.modify(freq, func(rd Radio) Radio {
			rd.CurrentlyRX = value
			return rd
		})
	})
}

// SetPendingDeletion marks the given frequency as (not) pending deletion.
func (r *Registry) SetPendingDeletion(freq int64, value bool) {
	r.update("set_pending_deletion", func() bool {
		return r.modify(freq, func(rd Radio) Radio {
			rd.IsPendingDeleting = value
			return rd
		})
	})
}

// SetRadioState sets the capability flags of the given frequency. Disabling
// RX or TX clears the matching activity flag.
func (r *Registry) SetRadioState(freq int64, state RadioState) {
	r.update("set_radio_state", func() bool {
		return r.modify(freq, func(rd Radio) Radio {
			rd.RX = state.RX
			rd.TX = state.TX
			rd.XC = state.XC
			rd.CrossCoupleAcross = state.CrossCoupleAcross
			rd.OnSpeaker = state.OnSpeaker

			if !state.RX {
				rd.CurrentlyRX = false
			}
			if !state.TX {
				rd.CurrentlyTX = false
			}

			log.WithFields(log.Fields{
				"frequency":  freq,
				"rx":         state.RX,
				"tx":         state.TX,
				"xc":         state.XC,
				"xca":        state.CrossCoupleAcross,
				"on_speaker": state.OnSpeaker,
			}).Debug("radio: radio state updated")
			return rd
		})
	})
}

// Reset removes all radios. The push-to-talk state is kept.
func (r *Registry) Reset() {
	r.update("reset", func() bool {
		r.radios = nil
		r.index = make(map[int64]int)
		return true
	})
	log.Info("radio: registry reset")
}

// Radios returns a copy of the ordered radio list.
func (r *Registry) Radios() []Radio {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRadios(r.radios)
}

// PTTIsOn returns the push-to-talk state.
func (r *Registry) PTTIsOn() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pttIsOn
}

// Snapshot returns a copy of the registry state.
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// Subscribe registers fn, which is called with a snapshot of the state after
// every mutation. The returned function removes the subscription.
func (r *Registry) Subscribe(fn func(State)) func() {
	id := uuid.Must(uuid.NewV4())

	r.subMu.Lock()
	r.subscribers = append(r.subscribers, subscriber{id: id, fn: fn})
	r.subMu.Unlock()

	log.WithField("subscriber_id", id).Debug("radio: subscriber added")

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()

		for i := range r.subscribers {
			if r.subscribers[i].id == id {
				r.subscribers = append(r.subscribers[:i:i], r.subscribers[i+1:]...)
				log.WithField("subscriber_id", id).Debug("radio: subscriber removed")
				return
			}
		}
	}
}

// update runs fn while holding the write lock. When fn returns true, the
// resulting state is delivered to the subscribers after the write lock has
// been released.
func (r *Registry) update(op string, fn func() bool) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if !fn() {
		r.mu.Unlock()
		return
	}

	mutationCounter(op).Inc()
	radioCountGauge().Set(float64(len(r.radios)))
	if r.pttIsOn {
		pttGauge().Set(1)
	} else {
		pttGauge().Set(0)
	}

	state := r.snapshot()
	r.mu.Unlock()

	r.subMu.RLock()
	subs := make([]subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	r.subMu.RUnlock()

	for _, s := range subs {
		s.fn(state.Copy())
	}
}

// modify replaces the radio for the given frequency with the result of fn.
// It returns false when the frequency is not present.
func (r *Registry) modify(freq int64, fn func(Radio) Radio) bool {
	i, ok := r.index[freq]
	if !ok {
		return false
	}
	r.radios[i] = fn(r.radios[i].clone())
	return true
}

func (r *Registry) reindex() {
	r.index = make(map[int64]int, len(r.radios))
	for i := range r.radios {
		r.index[r.radios[i].Frequency] = i
	}
}

func (r *Registry) snapshot() State {
	return State{
		Radios:  cloneRadios(r.radios),
		PTTIsOn: r.pttIsOn,
	}
}
