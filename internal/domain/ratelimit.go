package domain

// RateLimitRecord is a fixed-window counter for one caller-namespaced key
// (e.g. "login:<ip>"). Records are created lazily and reset in place when
// their window elapses; they are never deleted.
type RateLimitRecord struct {
	Key       string `dynamodbav:"key"`
	Count     int    `dynamodbav:"count"`
	LastReset int64  `dynamodbav:"last_reset"` // unix milliseconds
}
