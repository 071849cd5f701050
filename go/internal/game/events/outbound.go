package events

import (
	"encoding/json"
	"fmt"
)

// Action is a discrete gameplay signal derived from a swipe
type Action string

const (
	ActionUp    Action = "up"    // guessed
	ActionDown  Action = "down"  // missed
	ActionLeft  Action = "left"  // reserved
	ActionRight Action = "right" // reserved
)

// Valid reports whether a is one of the four swipe actions.
func (a Action) Valid() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	default:
		return false
	}
}

// SwipePayload is the body of an outbound swipe
type SwipePayload struct {
	Action Action `json:"action"`
}

// Encode builds the outbound envelope {"type": t, ...payload}. Payload
// fields are flattened next to the type tag; a nil payload yields
// {"type": t}. The payload must encode to a JSON object.
func Encode(t MessageType, payload any) ([]byte, error) {
	envelope := map[string]json.RawMessage{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		if string(raw) != "null" {
			if err := json.Unmarshal(raw, &envelope); err != nil {
				return nil, fmt.Errorf("%s payload is not an object: %w", t, err)
			}
		}
	}

	tag, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal type: %w", err)
	}
	envelope["type"] = tag

	return json.Marshal(envelope)
}

// EncodeSwipe encodes an outbound swipe action
func EncodeSwipe(a Action) ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid swipe action %q", a)
	}
	return Encode(MsgTypeSwipe, SwipePayload{Action: a})
}
