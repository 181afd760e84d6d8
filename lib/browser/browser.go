package browser

import (
	"context"
	"time"
)

// MethodRequestWillBeSent is the devtools protocol event emitted for
// every outgoing request, it is the only event kind the login flow
// cares about.
const MethodRequestWillBeSent = "Network.requestWillBeSent"

// NetworkEvent is one captured request from the browser's network log.
type NetworkEvent struct {
	Method  string
	URL     string
	Headers map[string]string
}

type Cookie struct {
	Name  string
	Value string
}

// Session abstracts the browser automation driver so that login flows
// can be exercised against a fake without a real browser. Click and
// Eval are best-effort, a missing element is not an error. WaitVisible
// blocks until the selector is visible or the timeout elapses.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	Eval(ctx context.Context, js string) error
	Cookies(ctx context.Context) ([]Cookie, error)
	NetworkLog() []NetworkEvent
	Close() error
}
