package meta

import (
	"encoding/json"
	"testing"
)

func leadgenChange(t *testing.T, leadgenID, pageID string) Change {
	t.Helper()
	value, err := json.Marshal(LeadgenValue{LeadgenID: leadgenID, PageID: pageID})
	if err != nil {
		t.Fatalf("marshal leadgen value: %v", err)
	}
	return Change{Field: "leadgen", Value: value}
}

func TestClassifyUnknownObject(t *testing.T) {
	for _, object := range []string{"", "user", "group", "permissions"} {
		env := Envelope{
			Object: object,
			Entry:  []Entry{{ID: "1", Changes: []Change{leadgenChange(t, "L1", "P1")}}},
		}
		if events := Classify(env); len(events) != 0 {
			t.Errorf("object %q: expected zero events, got %d", object, len(events))
		}
	}
}

func TestClassifyAllMatchingChangesDispatched(t *testing.T) {
	env := Envelope{
		Object: "page",
		Entry: []Entry{{
			ID: "entry1",
			Changes: []Change{
				leadgenChange(t, "L1", "P1"),
				leadgenChange(t, "L2", "P1"),
				{Field: "feed", Value: json.RawMessage(`{}`)},
			},
		}},
	}

	events := Classify(env)
	if len(events) != 2 {
		t.Fatalf("expected 2 leadgen events, got %d", len(events))
	}
	for i, want := range []string{"L1", "L2"} {
		if events[i].Kind != KindLeadgen || events[i].Leadgen == nil {
			t.Fatalf("event %d not a leadgen event: %+v", i, events[i])
		}
		if events[i].Leadgen.LeadgenID != want {
			t.Errorf("event %d: expected leadgen id %s, got %s", i, want, events[i].Leadgen.LeadgenID)
		}
	}
}

func TestClassifyMessagingDispatchedIndividually(t *testing.T) {
	env := Envelope{
		Object: "page",
		Entry: []Entry{{
			ID: "entry1",
			Messaging: []MessagingEvent{
				{Sender: Party{ID: "u1"}, Recipient: Party{ID: "P1"}, Message: &Message{MID: "m1", Text: "hi"}},
				{Sender: Party{ID: "u2"}, Recipient: Party{ID: "P1"}, Message: &Message{MID: "m2", Text: "hello"}},
			},
		}},
	}

	events := Classify(env)
	if len(events) != 2 {
		t.Fatalf("expected 2 messaging events, got %d", len(events))
	}
	for i, want := range []string{"m1", "m2"} {
		if events[i].Kind != KindMessages || events[i].Messaging == nil {
			t.Fatalf("event %d not a messaging event: %+v", i, events[i])
		}
		if events[i].Messaging.Message.MID != want {
			t.Errorf("event %d: expected mid %s, got %s", i, want, events[i].Messaging.Message.MID)
		}
	}
}

func TestClassifyChangesTakePrecedenceOverMessaging(t *testing.T) {
	env := Envelope{
		Object: "page",
		Entry: []Entry{{
			ID:        "entry1",
			Changes:   []Change{leadgenChange(t, "L1", "P1")},
			Messaging: []MessagingEvent{{Message: &Message{MID: "m1"}}},
		}},
	}

	events := Classify(env)
	if len(events) != 1 || events[0].Kind != KindLeadgen {
		t.Fatalf("expected a single leadgen event, got %+v", events)
	}
}

func TestClassifyUnrecognizedEntry(t *testing.T) {
	env := Envelope{
		Object: "page",
		Entry:  []Entry{{ID: "entry1"}},
	}

	events := Classify(env)
	if len(events) != 1 || events[0].Kind != KindUnrecognized {
		t.Fatalf("expected a single unrecognized event, got %+v", events)
	}
}

func TestClassifyInstagramComments(t *testing.T) {
	value, _ := json.Marshal(CommentValue{ID: "c1", Text: "nice"})
	env := Envelope{
		Object: "instagram",
		Entry: []Entry{{
			ID:      "ig1",
			Changes: []Change{{Field: "comments", Value: value}},
		}},
	}

	events := Classify(env)
	if len(events) != 1 || events[0].Kind != KindComments || events[0].Comment == nil {
		t.Fatalf("expected one comments event, got %+v", events)
	}
	if events[0].Comment.ID != "c1" {
		t.Errorf("expected comment c1, got %s", events[0].Comment.ID)
	}
}

func TestClassifyFirstChangeDecidesKind(t *testing.T) {
	// A page entry whose first change is not leadgen falls through to the
	// messaging branch even if a later change is a leadgen change.
	env := Envelope{
		Object: "page",
		Entry: []Entry{{
			ID: "entry1",
			Changes: []Change{
				{Field: "feed", Value: json.RawMessage(`{}`)},
				leadgenChange(t, "L1", "P1"),
			},
		}},
	}

	events := Classify(env)
	if len(events) != 1 || events[0].Kind != KindUnrecognized {
		t.Fatalf("expected unrecognized entry, got %+v", events)
	}
}

func TestRoutingTable(t *testing.T) {
	routing := DefaultRouting()

	tests := []struct {
		channel Channel
		kind    Kind
		want    Action
	}{
		{ChannelPage, KindLeadgen, ActionProcess},
		{ChannelPage, KindMessages, ActionProcess},
		{ChannelPage, KindComments, ActionLogOnly},
		{ChannelInstagram, KindComments, ActionLogOnly},
		{ChannelInstagram, KindMessages, ActionLogOnly},
		{ChannelWhatsApp, KindMessages, ActionLogOnly},
		{Channel("unknown"), KindLeadgen, ActionLogOnly},
	}
	for _, tt := range tests {
		if got := routing.ActionFor(tt.channel, tt.kind); got != tt.want {
			t.Errorf("ActionFor(%s, %s) = %v, want %v", tt.channel, tt.kind, got, tt.want)
		}
	}
}
