package caya

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cayasync/lib/browser"

	"go.opentelemetry.io/otel/codes"
)

var LoginFailed = fmt.Errorf("Failed to login to your account.")

// ErrNoAuthToken is returned when the login succeeded but no bearer
// token was captured off the network log. The customer api rejects
// cookie-only calls, so there is no degraded mode.
var ErrNoAuthToken = fmt.Errorf("no authorization header captured during login")

type Credentials struct {
	Username string
	Password string
	LoginUrl string
}

// css selectors the login flow interacts with, empty fields fall back
// to the portal's current layout.
type LoginSelectors struct {
	CookieBanner   string
	CookieAccept   string
	UsernameField  string
	PasswordField  string
	SubmitButton   string
	PopupClosers   []string
	LoggedInMarker string
}

func DefaultLoginSelectors() LoginSelectors {
	return LoginSelectors{
		CookieBanner:  "#cookiescript_buttons",
		CookieAccept:  "#cookiescript_accept",
		UsernameField: "#username",
		PasswordField: "#password",
		SubmitButton:  `button[type="submit"] span`,
		PopupClosers: []string{
			// usetiful tutorial popup
			`button.uf-qfgyv-close-button[data-uf-button="close"]`,
			// "recommended actions" dialog
			`button[data-testid="close-button"]`,
		},
		LoggedInMarker: "#caya-folderScreen-table",
	}
}

type LoginOptions struct {
	Selectors LoginSelectors
	// url prefixes to capture the bearer token off, defaults to
	// DefaultAPIHosts
	APIHosts []string
	// bound on the wait for the logged-in marker, defaults to 15s
	LoggedInTimeout time.Duration
	// the portal exposes no reliable signal after submitting the
	// form or closing popups, so the flow settles with a fixed
	// delay, defaults to 2s
	SettleDelay time.Duration
}

// Login drives a browser session through the portal's login flow and
// assembles the AuthContext for subsequent api calls: navigate, accept
// the cookie banner, fill in credentials, submit, close popups, wait
// for the document table, then capture the bearer token off the
// network log and serialize the cookie jar.
func Login(ctx context.Context, sess browser.Session, creds Credentials, opts LoginOptions) (AuthContext, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	sel := opts.Selectors
	if sel.LoggedInMarker == "" {
		sel = DefaultLoginSelectors()
	}
	hosts := opts.APIHosts
	if len(hosts) == 0 {
		hosts = DefaultAPIHosts
	}
	loggedInTimeout := opts.LoggedInTimeout
	if loggedInTimeout == 0 {
		loggedInTimeout = time.Second * 15
	}
	settle := opts.SettleDelay
	if settle == 0 {
		settle = time.Second * 2
	}

	err := sess.Navigate(ctx, creds.LoginUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login page")
		return AuthContext{}, fmt.Errorf("open login page: %w", err)
	}

	err = sess.WaitVisible(ctx, sel.CookieBanner, time.Second*10)
	if err != nil {
		// some regions never show the banner
		slog.DebugContext(ctx, "no cookie banner", "err", err)
	} else {
		sess.Click(ctx, sel.CookieAccept)
	}

	err = sess.WaitVisible(ctx, sel.UsernameField, time.Second*10)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login form never appeared")
		return AuthContext{}, fmt.Errorf("wait for login form: %w", err)
	}
	err = sess.Fill(ctx, sel.UsernameField, creds.Username)
	if err != nil {
		return AuthContext{}, fmt.Errorf("fill username: %w", err)
	}
	err = sess.Fill(ctx, sel.PasswordField, creds.Password)
	if err != nil {
		return AuthContext{}, fmt.Errorf("fill password: %w", err)
	}

	err = sess.Click(ctx, sel.SubmitButton)
	if err != nil {
		return AuthContext{}, fmt.Errorf("submit login form: %w", err)
	}
	time.Sleep(settle)

	// best-effort, absence of a popup is the common case
	for _, closer := range sel.PopupClosers {
		sess.Click(ctx, closer)
	}
	time.Sleep(settle)

	err = sess.WaitVisible(ctx, sel.LoggedInMarker, loggedInTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "document table never appeared")
		return AuthContext{}, fmt.Errorf("%w (%s)", LoginFailed, err)
	}

	authHeader := FindAuthHeader(sess.NetworkLog(), hosts)
	if authHeader == "" {
		span.RecordError(ErrNoAuthToken)
		span.SetStatus(codes.Error, ErrNoAuthToken.Error())
		return AuthContext{}, ErrNoAuthToken
	}

	cookies, err := sess.Cookies(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cookie jar")
		return AuthContext{}, fmt.Errorf("read cookie jar: %w", err)
	}
	var cookieHeader strings.Builder
	for _, c := range cookies {
		fmt.Fprintf(&cookieHeader, "%s=%s; ", c.Name, c.Value)
	}

	slog.InfoContext(ctx, "login complete", "cookies", len(cookies))

	return AuthContext{
		Authorization: authHeader,
		CookieHeader:  cookieHeader.String(),
	}, nil
}
