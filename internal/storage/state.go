package storage

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atcvoice/radio-registry/internal/radio"
)

const (
	stateKeyTempl       = "radio:registry:state"
	statePubSubKeyTempl = "radio:registry:pubsub:state"
)

// SaveState stores the given registry state.
func SaveState(ctx context.Context, s radio.State) error {
	if !Enabled() {
		return errRedisDisabled
	}

	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "json marshal error")
	}

	err = RedisClient().Set(ctx, GetRedisKey(stateKeyTempl), b, stateTTL).Err()
	if err != nil {
		return errors.Wrap(err, "set error")
	}

	log.WithFields(log.Fields{
		"radios": len(s.Radios),
		"ptt":    s.PTTIsOn,
	}).Debug("storage: registry state saved")

	return nil
}

// GetState returns the stored registry state.
func GetState(ctx context.Context) (radio.State, error) {
	var s radio.State

	if !Enabled() {
		return s, errRedisDisabled
	}

	val, err := RedisClient().Get(ctx, GetRedisKey(stateKeyTempl)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return s, ErrDoesNotExist
		}
		return s, errors.Wrap(err, "get error")
	}

	if err := json.Unmarshal(val, &s); err != nil {
		return s, errors.Wrap(err, "json unmarshal error")
	}

	return s, nil
}

// PublishState publishes the given registry state to the state pub-sub key.
func PublishState(ctx context.Context, s radio.State) error {
	if !Enabled() {
		return errRedisDisabled
	}

	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "json marshal error")
	}

	if err := RedisClient().Publish(ctx, GetRedisKey(statePubSubKeyTempl), b).Err(); err != nil {
		return errors.Wrap(err, "publish registry state error")
	}

	return nil
}

// SubscribeState subscribes to the published registry states and sends them
// to the given channel. It blocks until the context is cancelled.
func SubscribeState(ctx context.Context, stateChan chan<- radio.State) error {
	if !Enabled() {
		return errRedisDisabled
	}

	sub := RedisClient().Subscribe(ctx, GetRedisKey(statePubSubKeyTempl))
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrap(err, "subscribe error")
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var s radio.State
			if err := json.Unmarshal([]byte(msg.Payload), &s); err != nil {
				log.WithError(err).Error("storage: decode registry state error")
				continue
			}

			select {
			case stateChan <- s:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
