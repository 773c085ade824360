package broker

// EventKind identifies what a broker event carries.
type EventKind int

const (
	// EventMessage carries a message published on Channel.
	EventMessage EventKind = iota + 1
	// EventSubscribe acknowledges a subscription to Channel.
	EventSubscribe
	// EventUnsubscribe acknowledges an unsubscription from Channel.
	EventUnsubscribe
	// EventError reports a connection-level failure in Err.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventSubscribe:
		return "subscribe"
	case EventUnsubscribe:
		return "unsubscribe"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single item of the connector's inbound stream.
type Event struct {
	Kind    EventKind
	Channel string
	Payload string // EventMessage only
	Count   int    // EventSubscribe/EventUnsubscribe: subscriptions left on the connection
	Err     error  // EventError only
}

// Message builds an EventMessage.
func Message(channel, payload string) Event {
	return Event{Kind: EventMessage, Channel: channel, Payload: payload}
}

// Subscribed builds an EventSubscribe.
func Subscribed(channel string, count int) Event {
	return Event{Kind: EventSubscribe, Channel: channel, Count: count}
}

// Unsubscribed builds an EventUnsubscribe.
func Unsubscribed(channel string, count int) Event {
	return Event{Kind: EventUnsubscribe, Channel: channel, Count: count}
}

// Failure builds an EventError.
func Failure(err error) Event {
	return Event{Kind: EventError, Err: err}
}
