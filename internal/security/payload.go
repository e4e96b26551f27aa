package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxPayloadAge is the freshness window for signed trade requests. A request
// whose timestamp is older than this is rejected as a potential replay.
const MaxPayloadAge = 300 * time.Second

// maxClockSkew tolerates agent clocks running slightly ahead of ours.
const maxClockSkew = 60 * time.Second

// AuthError is returned when a signed payload fails verification. Reason is a
// short stable string surfaced to the caller.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

const (
	ReasonMissingSignature  = "missing signature"
	ReasonSignatureMismatch = "signature mismatch"
	ReasonStaleTimestamp    = "stale timestamp"
)

// SignPayload computes the HMAC-SHA256 signature over the canonical form of
// the given fields: keys sorted, joined as "k=v" lines. The signature field
// itself must not be included.
func SignPayload(fields map[string]string, secret string) string {
	lines := make([]string, 0, len(fields))
	for k, v := range fields {
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)
	dataString := strings.Join(lines, "\n")

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(dataString))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPayload checks a detached signature against the canonical fields and
// rejects requests outside the freshness window. fields must contain a
// "timestamp" entry holding a unix-seconds value; the signature is computed
// over all fields including it.
func VerifyPayload(fields map[string]string, signature, secret string, now time.Time) error {
	if signature == "" {
		return &AuthError{Reason: ReasonMissingSignature}
	}

	ts, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return &AuthError{Reason: ReasonStaleTimestamp}
	}
	age := now.Unix() - ts
	if age > int64(MaxPayloadAge.Seconds()) || -age > int64(maxClockSkew.Seconds()) {
		return &AuthError{Reason: ReasonStaleTimestamp}
	}

	expected := SignPayload(fields, secret)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return &AuthError{Reason: ReasonSignatureMismatch}
	}

	return nil
}
