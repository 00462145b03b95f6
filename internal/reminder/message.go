package reminder

import (
	"fmt"
	"time"
)

// Message is a rendered availability request.
type Message struct {
	Subject string
	Body    string
}

// NewMatchMessage renders the availability request for a fixture. The
// kickoff clock is shown in loc.
func NewMatchMessage(kickoff time.Time, opponent string, loc *time.Location) Message {
	if loc == nil {
		loc = time.UTC
	}
	clock := kickoff.In(loc).Format("15:04")
	return Message{
		Subject: "Available v " + opponent,
		Body: fmt.Sprintf(
			"Hi,\n\nCan you make **%s** versus **%s**?\n\nCheers,\nMark",
			clock, opponent,
		),
	}
}
