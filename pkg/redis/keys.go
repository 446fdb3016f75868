package redis

import "strings"

// Every key lives under st: so one Redis database can be shared with other
// services.
const keyNamespace = "st"

// IdempotencyKey scopes a processed-event marker to one consumer.
func (c *Client) IdempotencyKey(scope, id string) string {
	return joinKey("idempotency", scope, id)
}

func (c *Client) RateLimitKey(scope string) string {
	return joinKey("rate_limit", scope)
}

func (c *Client) LockKey(name string) string {
	return joinKey("lock", name)
}

// SessionKey is keyed by the JWT jti.
func (c *Client) SessionKey(sessionID string) string {
	return joinKey("session", sessionID)
}

func joinKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
