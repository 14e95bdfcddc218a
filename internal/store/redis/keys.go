package redis

import "fmt"

const (
	// KeyPrefixSession is the prefix for session records
	KeyPrefixSession = "tree:session:"
	// KeyPrefixShort is the prefix for cached shortened URLs
	KeyPrefixShort = "tree:short:"
)

// SessionKey returns the Redis key for a session by ID
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// ShortKey returns the Redis key for the shortened form of longURL
func ShortKey(longURL string) string {
	return KeyPrefixShort + longURL
}

// ExtractSessionID extracts the session ID from a Redis key
func ExtractSessionID(key string) (string, error) {
	if len(key) <= len(KeyPrefixSession) || key[:len(KeyPrefixSession)] != KeyPrefixSession {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	return key[len(KeyPrefixSession):], nil
}
