package security

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

// VerificationCodeLength is the length of bio verification codes.
const VerificationCodeLength = 16

// SecurityCodeLength is the length of the short per-trade security code.
const SecurityCodeLength = 6

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// GenerateCode returns a random hex token of the given length.
func GenerateCode(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic("security: rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(buf)[:length]
}

// GenerateVerificationCode returns a code the user pastes into their bio.
func GenerateVerificationCode() string {
	return GenerateCode(VerificationCodeLength)
}

// GenerateSecurityCode returns the short code attached to withdraw replies.
func GenerateSecurityCode() string {
	return strings.ToUpper(GenerateCode(SecurityCodeLength))
}

// IsValidUsername checks Roblox username syntax before any API call is made.
func IsValidUsername(username string) bool {
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return false
	}
	return usernameRe.MatchString(username)
}
