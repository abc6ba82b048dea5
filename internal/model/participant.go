package model

import "time"

// Participant is one occupied chat identity slot, tracked for presence.
// Names are case-sensitive and unique across the room at any instant.
type Participant struct {
	Name       string    `json:"name"`
	LastStatus time.Time `json:"lastStatus"`
}

// IdleFor reports whether the participant has been inactive for longer
// than the given timeout as of now.
func (p *Participant) IdleFor(timeout time.Duration, now time.Time) bool {
	return now.Sub(p.LastStatus) > timeout
}
