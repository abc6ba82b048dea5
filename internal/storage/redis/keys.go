package redis

import (
	"fmt"

	"github.com/sala-livre/batepapo/internal/model"
)

// Key prefix for all chat data
const keyPrefix = "batepapo"

// participantKey returns the Redis key for a Participant document
func participantKey(name string) string {
	return fmt.Sprintf("%s:participant:%s", keyPrefix, name)
}

// participantIndexKey returns the Redis key for the LIST of participant
// names, most recently registered first
func participantIndexKey() string {
	return fmt.Sprintf("%s:idx:participants", keyPrefix)
}

// messageKey returns the Redis key for a Message document
func messageKey(id model.MessageID) string {
	return fmt.Sprintf("%s:message:%s", keyPrefix, id)
}

// messageIndexKey returns the Redis key for the LIST of message ids in
// insertion order
func messageIndexKey() string {
	return fmt.Sprintf("%s:idx:messages", keyPrefix)
}
