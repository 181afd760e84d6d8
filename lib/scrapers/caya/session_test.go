package caya

import (
	"context"
	"testing"
	"time"

	"cayasync/lib/browser"
	"cayasync/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func fastLoginOptions() LoginOptions {
	return LoginOptions{
		SettleDelay: time.Millisecond,
	}
}

func TestLogin(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/caya")
	defer cleanup()

	sess := browser.NewFakeSession()
	sess.Events = []browser.NetworkEvent{
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://customer-api.caya.com/",
			Headers: map[string]string{
				"authorization": "Bearer abc",
			},
		},
	}
	sess.CookieJar = []browser.Cookie{
		{Name: "session", Value: "s1"},
		{Name: "csrf", Value: "c1"},
	}

	auth, err := Login(context.Background(), sess, Credentials{
		Username: "user@example.com",
		Password: "hunter2",
		LoginUrl: "https://app.caya.com/login",
	}, fastLoginOptions())
	require.NoError(t, err)

	require.Equal(t, "Bearer abc", auth.Authorization)
	require.Equal(t, "session=s1; csrf=c1; ", auth.CookieHeader)

	require.Equal(t, []string{"https://app.caya.com/login"}, sess.Navigated)
	require.Equal(t, "user@example.com", sess.Filled["#username"])
	require.Equal(t, "hunter2", sess.Filled["#password"])
	require.Contains(t, sess.Clicked, "#cookiescript_accept")
	require.Contains(t, sess.Clicked, `button[type="submit"] span`)
}

func TestLoginTimeout(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/caya")
	defer cleanup()

	sess := browser.NewFakeSession()
	sess.NeverVisible["#caya-folderScreen-table"] = true

	_, err := Login(context.Background(), sess, Credentials{}, fastLoginOptions())
	require.ErrorIs(t, err, LoginFailed)
}

func TestLoginMissingToken(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/caya")
	defer cleanup()

	// logged in fine but nothing in the network log matched
	sess := browser.NewFakeSession()
	sess.CookieJar = []browser.Cookie{{Name: "session", Value: "s1"}}

	_, err := Login(context.Background(), sess, Credentials{}, fastLoginOptions())
	require.ErrorIs(t, err, ErrNoAuthToken)
}

func TestLoginNoCookieBanner(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/caya")
	defer cleanup()

	sess := browser.NewFakeSession()
	sess.NeverVisible["#cookiescript_buttons"] = true
	sess.Events = []browser.NetworkEvent{
		{
			Method: browser.MethodRequestWillBeSent,
			URL:    "https://api.getcaya.com/",
			Headers: map[string]string{
				"authorization": "Bearer abc",
			},
		},
	}

	auth, err := Login(context.Background(), sess, Credentials{}, fastLoginOptions())
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", auth.Authorization)
	require.NotContains(t, sess.Clicked, "#cookiescript_accept")
}
