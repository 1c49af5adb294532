package meta

import "encoding/json"

// Envelope is the top-level structure received from Meta's webhook.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents a single entry in the webhook payload. Which of Changes
// and Messaging is populated depends on the product surface the event came
// from; the classifier keys off the shape, there is no explicit type field.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Changes   []Change         `json:"changes,omitempty"`
	Messaging []MessagingEvent `json:"messaging,omitempty"`
}

// Change is a field-change notification. Value is kept raw because its shape
// depends on Field; recognized fields are decoded into their variant types.
type Change struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// LeadgenValue is the payload of a change with field "leadgen".
type LeadgenValue struct {
	LeadgenID   string `json:"leadgen_id"`
	PageID      string `json:"page_id"`
	FormID      string `json:"form_id"`
	AdID        string `json:"ad_id"`
	CreatedTime int64  `json:"created_time"`
}

// CommentValue is the payload of an instagram change with field "comments".
type CommentValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	From struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"from"`
	MediaID string `json:"media_id"`
}

// MessagingEvent represents a single messaging event.
type MessagingEvent struct {
	Sender    Party    `json:"sender"`
	Recipient Party    `json:"recipient"`
	Timestamp int64    `json:"timestamp"`
	Message   *Message `json:"message,omitempty"`
}

// Party identifies a messaging participant.
type Party struct {
	ID string `json:"id"`
}

// Message contains the message content.
type Message struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}

// LeadDetail is the Graph API representation of one lead form submission.
type LeadDetail struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	FieldData   []LeadField `json:"field_data"`
}

// LeadField is one provider key/value pair describing the form submission.
type LeadField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// MessageDetail is the Graph API representation of one message.
type MessageDetail struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	From    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"from"`
}

// PageInfo describes one page the user administers.
type PageInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// GraphError is the error body returned by the Graph API.
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}
