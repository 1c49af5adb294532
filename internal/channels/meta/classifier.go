package meta

import "encoding/json"

// Channel is the platform product an event originates from.
type Channel string

const (
	ChannelPage      Channel = "page"
	ChannelInstagram Channel = "instagram"
	ChannelWhatsApp  Channel = "whatsapp_business_account"
)

// Kind is the event kind within a channel, determined by entry shape.
type Kind string

const (
	KindLeadgen      Kind = "leadgen"
	KindComments     Kind = "comments"
	KindMessages     Kind = "messages"
	KindUnrecognized Kind = "unrecognized"
)

// Event is one dispatchable webhook event. Exactly one of the payload
// variants is set, matching Kind.
type Event struct {
	Channel Channel
	Kind    Kind
	EntryID string

	Leadgen   *LeadgenValue
	Comment   *CommentValue
	Messaging *MessagingEvent
	Raw       json.RawMessage
}

// Action decides what the processor does with a routed event.
type Action int

const (
	// ActionLogOnly observes the event without calling into persistence.
	ActionLogOnly Action = iota
	// ActionProcess runs the full pipeline.
	ActionProcess
)

// Route keys the routing table by channel and kind.
type Route struct {
	Channel Channel
	Kind    Kind
}

// KindAny matches every kind of a channel in a RoutingTable.
const KindAny Kind = "*"

// RoutingTable enumerates per-(channel, kind) handling. The asymmetry between
// fully-processed page events and observe-only instagram/whatsapp events is
// configuration, not hardcoded branching.
type RoutingTable map[Route]Action

// DefaultRouting returns the production routing table.
func DefaultRouting() RoutingTable {
	return RoutingTable{
		{ChannelPage, KindLeadgen}:  ActionProcess,
		{ChannelPage, KindMessages}: ActionProcess,
		{ChannelInstagram, KindAny}: ActionLogOnly,
		{ChannelWhatsApp, KindAny}:  ActionLogOnly,
	}
}

// ActionFor resolves the action for an event, preferring an exact
// (channel, kind) entry over a channel wildcard. Unrouted events are
// observe-only.
func (t RoutingTable) ActionFor(channel Channel, kind Kind) Action {
	if action, ok := t[Route{channel, kind}]; ok {
		return action
	}
	if action, ok := t[Route{channel, KindAny}]; ok {
		return action
	}
	return ActionLogOnly
}

// leadField returns the change field that carries this channel's primary
// change-based event kind.
func leadField(channel Channel) (string, Kind) {
	switch channel {
	case ChannelPage:
		return "leadgen", KindLeadgen
	case ChannelInstagram:
		return "comments", KindComments
	case ChannelWhatsApp:
		return "messages", KindMessages
	}
	return "", KindUnrecognized
}

// Classify flattens a webhook envelope into dispatchable events.
//
// Unknown objects yield no events: Meta adds object types over time and an
// unrecognized one is not an error. Within a recognized object, the kind is
// decided by shape: a changes list whose first element carries the channel's
// change field dispatches ALL matching changes, otherwise a non-empty
// messaging list dispatches each item individually, otherwise the entry is
// reported as a single unrecognized event for the caller to log.
func Classify(env Envelope) []Event {
	channel := Channel(env.Object)
	switch channel {
	case ChannelPage, ChannelInstagram, ChannelWhatsApp:
	default:
		return nil
	}

	field, kind := leadField(channel)

	var events []Event
	for _, entry := range env.Entry {
		switch {
		case len(entry.Changes) > 0 && entry.Changes[0].Field == field:
			for _, change := range entry.Changes {
				if change.Field != field {
					continue
				}
				events = append(events, classifyChange(channel, kind, entry.ID, change))
			}
		case len(entry.Messaging) > 0:
			for i := range entry.Messaging {
				events = append(events, Event{
					Channel:   channel,
					Kind:      KindMessages,
					EntryID:   entry.ID,
					Messaging: &entry.Messaging[i],
				})
			}
		default:
			events = append(events, Event{
				Channel: channel,
				Kind:    KindUnrecognized,
				EntryID: entry.ID,
			})
		}
	}
	return events
}

func classifyChange(channel Channel, kind Kind, entryID string, change Change) Event {
	ev := Event{
		Channel: channel,
		Kind:    kind,
		EntryID: entryID,
		Raw:     change.Value,
	}
	switch kind {
	case KindLeadgen:
		var value LeadgenValue
		if err := json.Unmarshal(change.Value, &value); err == nil {
			ev.Leadgen = &value
		}
	case KindComments:
		var value CommentValue
		if err := json.Unmarshal(change.Value, &value); err == nil {
			ev.Comment = &value
		}
	}
	return ev
}
