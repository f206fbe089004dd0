// Package behavior defines the extension point for application decision
// logic: the Model interface, the Intent actions it returns, and the
// read-only Context it decides against.
package behavior

import "github.com/gabemgem/citytwin/core"

// IntentKind discriminates the Intent sum.
type IntentKind uint8

const (
	// IntentWakeAt asks to be woken again at Tick for re-planning.
	IntentWakeAt IntentKind = iota
	// IntentTravelTo asks to travel to Destination via Mode.
	IntentTravelTo
	// IntentSendMessage asks to deliver Payload to To.
	IntentSendMessage
)

// Intent is an action an agent requests during the current tick. Intents are
// produced by the behavior hooks and consumed by the sequential apply phase;
// a behavior may return several per tick and the apply phase resolves
// conflicts (a second TravelTo fails because the agent is already in
// transit).
type Intent struct {
	Kind IntentKind

	// Tick is the requested wake tick (IntentWakeAt).
	Tick core.Tick

	// Destination and Mode describe the journey (IntentTravelTo).
	Destination core.NodeID
	Mode        core.TransportMode

	// To and Payload describe the message (IntentSendMessage). Payload is an
	// opaque byte array; the engine imposes no schema.
	To      core.AgentID
	Payload []byte
}

// WakeAt builds a wake request.
func WakeAt(t core.Tick) Intent {
	return Intent{Kind: IntentWakeAt, Tick: t}
}

// TravelTo builds a travel request.
func TravelTo(destination core.NodeID, mode core.TransportMode) Intent {
	return Intent{Kind: IntentTravelTo, Destination: destination, Mode: mode}
}

// SendMessage builds a message send.
func SendMessage(to core.AgentID, payload []byte) Intent {
	return Intent{Kind: IntentSendMessage, To: to, Payload: payload}
}
