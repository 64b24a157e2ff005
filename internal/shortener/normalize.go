package shortener

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// MaxTargetLength bounds the stored target URL.
const MaxTargetLength = 2048

const defaultScheme = "http://"

// Normalize makes sure a URL carries an explicit http or https scheme.
// The scheme is read from the raw bytes before the first colon, so no decoding
// of the input happens here. Inputs without a web scheme get "http://" prepended;
// everything else is returned unchanged.
func Normalize(rawURL string) string {
	if hasWebScheme(rawURL) {
		return rawURL
	}

	return defaultScheme + rawURL
}

func hasWebScheme(rawURL string) bool {
	i := strings.IndexByte(rawURL, ':')
	if i <= 0 {
		return false
	}

	scheme := rawURL[:i]

	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// Validate reports ErrInvalidURL when a normalized URL cannot be stored as a target.
func Validate(target string) error {
	if len(target) > MaxTargetLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidURL, MaxTargetLength)
	}

	if strings.IndexFunc(target, disallowedRune) >= 0 {
		return fmt.Errorf("%w: contains whitespace or control characters", ErrInvalidURL)
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if strings.HasSuffix(u.Host, ":") {
		return fmt.Errorf("%w: empty port", ErrInvalidURL)
	}

	if port := u.Port(); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%w: invalid port %q", ErrInvalidURL, port)
		}
	}

	return validateHost(u.Hostname())
}

func validateHost(host string) error {
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return fmt.Errorf("%w: host %q: %w", ErrInvalidURL, host, err)
	}

	for _, label := range strings.Split(strings.TrimSuffix(ascii, "."), ".") {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("%w: host %q has an invalid label", ErrInvalidURL, host)
		}
	}

	return nil
}

func disallowedRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
