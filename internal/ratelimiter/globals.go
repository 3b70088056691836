package ratelimiter

import (
	"time"
)

const (
	privateChatRate = time.Second
	groupChatRate   = 3 * time.Second
	queueSize       = 1000

	// DefaultIdle is how long a chat stays tracked after its last message.
	DefaultIdle = 30 * time.Minute
)
