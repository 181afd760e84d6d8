package caya

import (
	"strings"

	"cayasync/lib/browser"
)

// FindAuthHeader scans an ordered browser network log for the first
// request sent to one of the given url prefixes that carries an
// authorization header and returns the header value. Prefix matching
// is case-sensitive. It returns "" when no such request exists, the
// caller decides whether a missing token is fatal.
func FindAuthHeader(events []browser.NetworkEvent, urlPrefixes []string) string {
	for _, ev := range events {
		if ev.Method != browser.MethodRequestWillBeSent {
			continue
		}
		auth := headerValue(ev.Headers, "authorization")
		if auth == "" {
			continue
		}
		for _, prefix := range urlPrefixes {
			if strings.HasPrefix(ev.URL, prefix) {
				return auth
			}
		}
	}
	return ""
}

// devtools reports header names with whatever casing the browser used
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
