package shortener

import (
	"crypto/md5" //nolint:gosec // used as a uniform identifier generator, not for integrity
	"encoding/hex"
)

// DigestLength is the length of a rendered digest and the upper bound for a tiny.
const DigestLength = md5.Size * 2

// Digest returns the lowercase hex MD5 of the URL bytes.
func Digest(normalizedURL string) string {
	sum := md5.Sum([]byte(normalizedURL)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}

// Truncate cuts a digest down to a tiny of the requested length.
func Truncate(digest string, length int) Tiny {
	if length > len(digest) {
		length = len(digest)
	}

	return Tiny(digest[:length])
}

// Derive computes the tiny of the requested length for a normalized URL.
func Derive(normalizedURL string, length int) Tiny {
	return Truncate(Digest(normalizedURL), length)
}
