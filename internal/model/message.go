package model

import "time"

// Address is a single mailbox participant as reported by the provider.
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// MessageSummary is one entry of the inbox listing. The provider determines
// the ordering; the client never re-sorts. Summaries are replaced wholesale
// on every poll.
type MessageSummary struct {
	ID        string    `json:"id"`
	From      Address   `json:"from"`
	Subject   string    `json:"subject"`
	Intro     string    `json:"intro"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment describes a single attachment of a message detail.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

// Message is the full detail of a single message, fetched lazily on
// selection and discarded when the detail view closes.
type Message struct {
	ID          string       `json:"id"`
	From        Address      `json:"from"`
	To          []Address    `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	HTML        []string     `json:"html"`
	Attachments []Attachment `json:"attachments"`
	Seen        bool         `json:"seen"`
	CreatedAt   time.Time    `json:"createdAt"`
}
