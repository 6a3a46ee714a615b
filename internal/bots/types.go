package bots

// Platform identifies the messaging platform.
type Platform string

const (
	PlatformSlack Platform = "slack"
	PlatformTeams Platform = "teams"
)

// IncomingMessage represents a message received from any platform.
type IncomingMessage struct {
	Platform  Platform
	ChannelID string
	UserID    string
	UserName  string
	Text      string
	ThreadID  string // for threaded replies
	Timestamp string
}

// OutgoingMessage represents a response to send back.
type OutgoingMessage struct {
	ChannelID string `json:"channel"`
	Text      string `json:"text"`
	ThreadID  string `json:"thread_id,omitempty"`
}

func reply(msg IncomingMessage, text string) *OutgoingMessage {
	return &OutgoingMessage{
		ChannelID: msg.ChannelID,
		ThreadID:  msg.ThreadID,
		Text:      text,
	}
}
