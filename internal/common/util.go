package common

import "strings"

// StripBearer removes an optional "Bearer " scheme prefix and surrounding
// whitespace from a raw token header value.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(BearerPrefix) && strings.EqualFold(raw[:len(BearerPrefix)], BearerPrefix) {
		raw = raw[len(BearerPrefix):]
	}
	return strings.TrimSpace(raw)
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop passwords from memory once they have been hashed or sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
