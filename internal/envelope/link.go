package envelope

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hushbox/hushbox/internal/crypto"
)

// BuildShareLink composes a share link of the form
//
//	scheme://host/view/<id>#<key>
//
// The key rides in the fragment, which browsers never send to the server.
func BuildShareLink(baseURL, id, keyHex string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: base URL must be absolute", ErrInvalidShareLink)
	}
	if !crypto.IsToken(id) {
		return "", fmt.Errorf("%w: malformed id", ErrInvalidShareLink)
	}
	if _, err := crypto.KeyFromHex(keyHex); err != nil {
		return "", fmt.Errorf("%w: key must be %d hex chars", ErrInvalidShareLink, crypto.KeyHexLen)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/view/" + strings.ToLower(id)
	u.Fragment = strings.ToLower(keyHex)
	return u.String(), nil
}

// ParseShareLink extracts the id and hex key from a share link.
// Accepts formats:
//   - scheme://host/view/<id>#<key>
//   - <id>#<key> (bare id with fragment)
func ParseShareLink(raw string) (id, keyHex string, err error) {
	var frag string

	u, parseErr := url.Parse(raw)
	if parseErr == nil && u.Scheme != "" && u.Host != "" {
		const viewSeg = "/view/"
		i := strings.LastIndex(u.Path, viewSeg)
		if i < 0 {
			return "", "", fmt.Errorf("%w: expected /view/<id> path", ErrInvalidShareLink)
		}
		id = strings.TrimSuffix(u.Path[i+len(viewSeg):], "/")
		frag = u.Fragment
	} else {
		parts := strings.SplitN(raw, "#", 2)
		if len(parts) != 2 || parts[0] == "" {
			return "", "", fmt.Errorf("%w: missing fragment", ErrInvalidShareLink)
		}
		id, frag = parts[0], parts[1]
	}

	if !crypto.IsToken(id) {
		return "", "", fmt.Errorf("%w: malformed id", ErrInvalidShareLink)
	}
	if frag == "" {
		return "", "", fmt.Errorf("%w: missing key fragment", ErrInvalidShareLink)
	}
	if _, err := crypto.KeyFromHex(frag); err != nil {
		return "", "", fmt.Errorf("%w: key must be %d hex chars", ErrInvalidShareLink, crypto.KeyHexLen)
	}

	return strings.ToLower(id), strings.ToLower(frag), nil
}
