package conversation

import "charatalk/internal/model/chat"

// State is the full observable condition of one conversation: the ordered
// append-only history plus the two transient flags. Values handed out of
// the store are snapshots; mutation happens only through events.
type State struct {
	Messages []chat.Message `json:"messages"`
	Awaiting bool           `json:"isAwaitingResponse"`
	Alert    string         `json:"alert,omitempty"`
}

// Event is a single state transition input for reduce.
type Event interface {
	isEvent()
}

// AppendMessage appends one immutable turn to the history.
type AppendMessage struct {
	Message chat.Message
}

// SetAwaiting flips the single-outstanding-request flag.
type SetAwaiting struct {
	Awaiting bool
}

// SetAlert replaces the transient alert slot; the slot holds at most one
// alert, so a newer one displaces whatever was there.
type SetAlert struct {
	Alert string
}

// ClearAlert empties the alert slot. Clearing an empty slot is a no-op.
type ClearAlert struct{}

func (AppendMessage) isEvent() {}
func (SetAwaiting) isEvent()   {}
func (SetAlert) isEvent()      {}
func (ClearAlert) isEvent()    {}

// reduce folds one event into the state and returns the next state. Pure:
// no I/O, no clock, no mutation of the input beyond the shared backing
// array growing append-only.
func reduce(state State, event Event) State {
	switch ev := event.(type) {
	case AppendMessage:
		state.Messages = append(state.Messages, ev.Message)
	case SetAwaiting:
		state.Awaiting = ev.Awaiting
	case SetAlert:
		state.Alert = ev.Alert
	case ClearAlert:
		state.Alert = ""
	}
	return state
}
