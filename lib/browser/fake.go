package browser

import (
	"context"
	"fmt"
	"time"
)

// FakeSession is a scripted Session for tests, it records every call
// and serves a canned network log and cookie jar.
type FakeSession struct {
	// selectors that will never become visible, WaitVisible on one
	// of these blocks until its timeout elapses
	NeverVisible map[string]bool
	Events       []NetworkEvent
	CookieJar    []Cookie

	Navigated []string
	Filled    map[string]string
	Clicked   []string
	Evaled    []string
	Closed    bool
}

func NewFakeSession() *FakeSession {
	return &FakeSession{
		NeverVisible: map[string]bool{},
		Filled:       map[string]string{},
	}
}

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	s.Navigated = append(s.Navigated, url)
	return nil
}

func (s *FakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if s.NeverVisible[selector] {
		return fmt.Errorf("%s not visible after %s: %w", selector, timeout, context.DeadlineExceeded)
	}
	return nil
}

func (s *FakeSession) Fill(ctx context.Context, selector, value string) error {
	s.Filled[selector] = value
	return nil
}

func (s *FakeSession) Click(ctx context.Context, selector string) error {
	s.Clicked = append(s.Clicked, selector)
	return nil
}

func (s *FakeSession) Eval(ctx context.Context, js string) error {
	s.Evaled = append(s.Evaled, js)
	return nil
}

func (s *FakeSession) Cookies(ctx context.Context) ([]Cookie, error) {
	return s.CookieJar, nil
}

func (s *FakeSession) NetworkLog() []NetworkEvent {
	return s.Events
}

func (s *FakeSession) Close() error {
	s.Closed = true
	return nil
}
