package events

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/atcvoice/radio-registry/internal/notification"
	"github.com/atcvoice/radio-registry/internal/radio"
	"github.com/atcvoice/radio-registry/internal/session"
)

type HandlerTestSuite struct {
	suite.Suite

	session  *session.Store
	notifier *notification.Recorder
	registry *radio.Registry
	handler  *Handler
}

func (ts *HandlerTestSuite) SetupTest() {
	ts.session = session.NewStore("EGLL_GND")
	ts.notifier = notification.NewRecorder(10, nil)
	ts.registry = radio.NewRegistry(ts.session, ts.notifier)
	ts.handler = NewHandler(ts.registry, ts.session)
}

func (ts *HandlerTestSuite) handle(typ Type, payload string) error {
	return ts.handler.Handle(context.Background(), typ, []byte(payload))
}

func (ts *HandlerTestSuite) get(frequency int64) radio.Radio {
	rd, ok := ts.registry.GetRadio(frequency)
	ts.Require().True(ok)
	return rd
}

func (ts *HandlerTestSuite) TestStationLifecycle() {
	assert := require.New(ts.T())

	assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(StationAdded, `{"frequency": 121900000, "callsign": "EGKK_GND"}`))
	assert.Len(ts.registry.Radios(), 2)
	assert.Equal("EGLL_TWR", ts.registry.Radios()[0].Callsign)

	ts.T().Run("Duplicate is not an error", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
		assert.Len(ts.registry.Radios(), 2)
		assert.Len(ts.notifier.Notifications(), 1)
	})

	ts.T().Run("State", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(StationState, `{"frequency": 118500000, "rx": true, "tx": true, "xc": true, "xca": false, "on_speaker": true}`))
		rd := ts.get(118500000)
		assert.True(rd.RX)
		assert.True(rd.TX)
		assert.True(rd.XC)
		assert.False(rd.CrossCoupleAcross)
		assert.True(rd.OnSpeaker)
	})

	ts.T().Run("Selected", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(StationSelected, `{"frequency": 121900000}`))
		rd, ok := ts.registry.GetSelectedRadio()
		assert.True(ok)
		assert.EqualValues(121900000, rd.Frequency)
	})

	ts.T().Run("Pending deletion", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(PendingDeletion, `{"frequency": 121900000, "value": true}`))
		assert.True(ts.get(121900000).IsPendingDeleting)
	})

	ts.T().Run("Removed", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(StationRemoved, `{"frequency": 121900000}`))
		assert.Len(ts.registry.Radios(), 1)
	})

	ts.T().Run("Reset", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(Reset, ``))
		assert.Len(ts.registry.Radios(), 0)
	})
}

func (ts *HandlerTestSuite) TestReception() {
	assert := require.New(ts.T())

	assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(StationState, `{"frequency": 118500000, "rx": true}`))

	assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "BAW1"}`))
	rd := ts.get(118500000)
	assert.True(rd.CurrentlyRX)
	assert.Equal("BAW1", rd.LastReceivedCallsign)

	assert.NoError(ts.handle(RXEnd, `{"frequency": 118500000}`))
	assert.False(ts.get(118500000).CurrentlyRX)

	ts.T().Run("Own transmission", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "EGLL_GND"}`))
		assert.Equal("BAW1", ts.get(118500000).LastReceivedCallsign)
	})

	ts.T().Run("Session callsign update", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(ts.handle(Session, `{"callsign": "EGLL_TWR"}`))
		assert.Equal("EGLL_TWR", ts.session.StationCallsign())

		assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "EGLL_GND"}`))
		rd := ts.get(118500000)
		assert.Equal("EGLL_GND", rd.LastReceivedCallsign)
		assert.Equal([]string{"BAW1"}, rd.LastReceivedCallsignHistory)
	})
}

func (ts *HandlerTestSuite) TestReceptionUpdateOrder() {
	assert := require.New(ts.T())

	assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "BAW1"}`))
	assert.NoError(ts.handle(RXEnd, `{"frequency": 118500000}`))

	var states []radio.State
	unsubscribe := ts.registry.Subscribe(func(s radio.State) {
		states = append(states, s)
	})
	defer unsubscribe()

	assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "BAW2"}`))
	assert.Len(states, 2)

	assert.True(states[0].Radios[0].CurrentlyRX)
	assert.Equal("BAW1", states[0].Radios[0].LastReceivedCallsign)

	assert.True(states[1].Radios[0].CurrentlyRX)
	assert.Equal("BAW2", states[1].Radios[0].LastReceivedCallsign)
	assert.Equal([]string{"BAW1"}, states[1].Radios[0].LastReceivedCallsignHistory)
}

func (ts *HandlerTestSuite) TestTransmission() {
	assert := require.New(ts.T())

	assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(StationAdded, `{"frequency": 118700000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(StationState, `{"frequency": 118500000, "rx": true, "tx": true}`))

	assert.NoError(ts.handle(PTT, `{"active": true}`))
	assert.True(ts.registry.PTTIsOn())
	assert.True(ts.get(118500000).CurrentlyTX)
	assert.False(ts.get(118700000).CurrentlyTX)

	assert.NoError(ts.handle(Transceivers, `{"callsign": "EGLL_TWR", "count": 4}`))
	assert.Equal(4, ts.get(118500000).TransceiverCount)
	assert.Equal(4, ts.get(118700000).TransceiverCount)
}

func (ts *HandlerTestSuite) TestErrors() {
	ts.T().Run("Unknown type", func(t *testing.T) {
		assert := require.New(t)

		err := ts.handle(Type("unknown"), `{}`)
		assert.Error(err)
		assert.Equal(ErrUnknownEventType, errors.Cause(err))
	})

	ts.T().Run("Malformed payload", func(t *testing.T) {
		assert := require.New(t)

		assert.Error(ts.handle(StationAdded, `{"frequency": "abc"`))
		assert.Len(ts.registry.Radios(), 0)
	})
}

type activityCall struct {
	Frequency int64
	Counter   string
}

type testActivityRecorder struct {
	calls []activityCall
	err   error
}

func (r *testActivityRecorder) RecordActivity(ctx context.Context, frequency int64, counter string) error {
	r.calls = append(r.calls, activityCall{Frequency: frequency, Counter: counter})
	return r.err
}

func (ts *HandlerTestSuite) TestActivity() {
	assert := require.New(ts.T())

	rec := &testActivityRecorder{}
	ts.handler.SetActivityRecorder(rec)

	assert.NoError(ts.handle(StationAdded, `{"frequency": 118500000, "callsign": "EGLL_TWR"}`))
	assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "BAW1"}`))
	assert.NoError(ts.handle(RXEnd, `{"frequency": 118500000}`))
	assert.Equal([]activityCall{{Frequency: 118500000, Counter: "rx_count"}}, rec.calls)

	ts.T().Run("Recorder error", func(t *testing.T) {
		assert := require.New(t)

		rec.err = errors.New("redis is down")
		assert.NoError(ts.handle(RXBegin, `{"frequency": 118500000, "callsign": "BAW2"}`))
		assert.Equal("BAW2", ts.get(118500000).LastReceivedCallsign)
	})
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
