// Package visitor derives stable pseudonymous visitor identifiers from
// request metadata. Entries missing both IP and user agent collapse into one
// shared "unknown" identity; that is an accepted limitation of log-only data.
package visitor

import (
	"crypto/md5"
	"encoding/hex"
)

const unknown = "unknown"

// Fingerprint returns a hex digest of "ip|userAgent". It is a pure function
// with no salt, so the same visitor hashes identically across runs.
func Fingerprint(ip, userAgent string) string {
	if ip == "" {
		ip = unknown
	}
	if userAgent == "" {
		userAgent = unknown
	}
	sum := md5.Sum([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:])
}
