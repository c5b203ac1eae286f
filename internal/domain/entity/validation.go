package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength caps item URLs so a malformed provider response cannot smuggle
// unbounded strings into rendered output.
const maxURLLength = 2048

// ValidateItemURL checks that an item URL is a well-formed absolute
// http(s) URL with a host. It performs no network I/O: draft validation is a
// pure data transform and must not depend on DNS availability.
func ValidateItemURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("url is required")
	}
	if len(rawURL) > maxURLLength {
		return fmt.Errorf("url must not exceed %d characters", maxURLLength)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url must use http or https scheme")
	}
	if parsed.Host == "" {
		return fmt.Errorf("url must have a valid host")
	}
	return nil
}
