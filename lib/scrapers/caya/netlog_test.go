package caya

import (
	"testing"

	"cayasync/lib/browser"

	"github.com/stretchr/testify/require"
)

func TestFindAuthHeader(t *testing.T) {
	events := []browser.NetworkEvent{
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://cdn.caya.com/assets/app.js",
			Headers: map[string]string{
				"Accept": "*/*",
			},
		},
		{
			// matching host but no authorization header
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://customer-api.caya.com/",
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		},
		{
			// not a request event
			Method: "Network.responseReceived",
			URL:    "https://customer-api.caya.com/",
			Headers: map[string]string{
				"authorization": "Bearer wrong",
			},
		},
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://customer-api.caya.com/",
			Headers: map[string]string{
				"authorization": "Bearer abc",
			},
		},
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://api.getcaya.com/other",
			Headers: map[string]string{
				"authorization": "Bearer later",
			},
		},
	}

	require.Equal(t, "Bearer abc", FindAuthHeader(events, DefaultAPIHosts))
}

func TestFindAuthHeaderCasing(t *testing.T) {
	events := []browser.NetworkEvent{
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://api.getcaya.com/graphql",
			Headers: map[string]string{
				"Authorization": "Bearer xyz",
			},
		},
	}

	require.Equal(t, "Bearer xyz", FindAuthHeader(events, DefaultAPIHosts))
}

func TestFindAuthHeaderNotFound(t *testing.T) {
	events := []browser.NetworkEvent{
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://unrelated.example.com/",
			Headers: map[string]string{
				"authorization": "Bearer abc",
			},
		},
	}

	require.Equal(t, "", FindAuthHeader(events, DefaultAPIHosts))
	require.Equal(t, "", FindAuthHeader(nil, DefaultAPIHosts))
}
