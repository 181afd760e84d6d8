package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	// keeps the browser window visible for debugging
	Headful bool
	// defaults to 1600x1500 so every login page element is
	// interactable without scrolling
	WindowWidth  int
	WindowHeight int
}

// ChromeSession drives a real headless Chrome through the devtools
// protocol and records every outgoing request into an in-memory
// network log.
type ChromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	mu     sync.Mutex
	events []NetworkEvent
}

func NewChromeSession(ctx context.Context, opts ChromeOptions) (*ChromeSession, error) {
	width := opts.WindowWidth
	if width == 0 {
		width = 1600
	}
	height := opts.WindowHeight
	if height == 0 {
		height = 1500
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Headful),
		chromedp.NoSandbox,
		chromedp.WindowSize(width, height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSession{
		ctx:         taskCtx,
		cancel:      taskCancel,
		allocCancel: allocCancel,
	}

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		req, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		headers := make(map[string]string, len(req.Request.Headers))
		for k, v := range req.Request.Headers {
			headers[k] = fmt.Sprint(v)
		}
		s.mu.Lock()
		s.events = append(s.events, NetworkEvent{
			Method:  MethodRequestWillBeSent,
			URL:     req.Request.URL,
			Headers: headers,
		})
		s.mu.Unlock()
	})

	err := chromedp.Run(taskCtx, network.Enable())
	if err != nil {
		taskCancel()
		allocCancel()
		return nil, err
	}

	return s, nil
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(s.ctx, chromedp.Navigate(url))
}

func (s *ChromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (s *ChromeSession) Fill(ctx context.Context, selector, value string) error {
	return chromedp.Run(s.ctx, chromedp.SendKeys(selector, value, chromedp.ByQuery))
}

// Click dispatches a javascript click so that a missing element is
// silently skipped, the login flow treats absent popups as normal.
func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	return s.Eval(ctx, fmt.Sprintf("document.querySelector(%q)?.click();", selector))
}

func (s *ChromeSession) Eval(ctx context.Context, js string) error {
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, nil))
}

func (s *ChromeSession) Cookies(ctx context.Context) ([]Cookie, error) {
	var raw []*network.Cookie
	err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		raw, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}

	cookies := make([]Cookie, len(raw))
	for i, c := range raw {
		cookies[i] = Cookie{Name: c.Name, Value: c.Value}
	}
	return cookies, nil
}

func (s *ChromeSession) NetworkLog() []NetworkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NetworkEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *ChromeSession) Close() error {
	s.cancel()
	s.allocCancel()
	return nil
}
