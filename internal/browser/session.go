package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// apiPathHints marks responses worth capturing: profile sites load
// contact data through these endpoints rather than the initial HTML.
var apiPathHints = []string{"/api/", "/voyager/", "graphql"}

// Session is one rendered page plus the network responses intercepted
// while it loaded. Close releases the page; the run's orchestrator
// guarantees that happens on every exit path.
type Session struct {
	page *rod.Page

	mu     sync.Mutex
	bodies []string
}

// Open navigates to url in a fresh page and starts capturing API
// response bodies in the background.
func (b *Browser) Open(ctx context.Context, url string) (*Session, error) {
	page, err := b.newPage()
	if err != nil {
		return nil, fmt.Errorf("browser new page: %w", err)
	}
	page = page.Context(ctx)

	s := &Session{page: page}

	if err := (proto.NetworkEnable{}).Call(page); err == nil {
		go page.EachEvent(func(e *proto.NetworkResponseReceived) {
			if e.Response == nil || e.Response.Status != 200 {
				return
			}
			if !looksLikeAPI(e.Response.URL) {
				return
			}
			body, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
			if err != nil || body.Body == "" {
				return
			}
			s.mu.Lock()
			if len(s.bodies) < 64 {
				s.bodies = append(s.bodies, body.Body)
			}
			s.mu.Unlock()
		})()
	}

	if err := page.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("browser navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("browser wait load: %w", err)
	}

	// let XHR-rendered content settle before reading anything
	wait := page.WaitRequestIdle(
		500*time.Millisecond, nil, nil,
		[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
	)
	wait()

	return s, nil
}

func (s *Session) Close() {
	if s == nil || s.page == nil {
		return
	}
	_ = s.page.Close()
}

// Text returns the rendered body text.
func (s *Session) Text() (string, error) {
	val, err := s.page.Eval(`() => document.body ? document.body.innerText : ''`)
	if err != nil {
		return "", fmt.Errorf("browser body text: %w", err)
	}
	return val.Value.Str(), nil
}

// HTML returns the full rendered markup.
func (s *Session) HTML() (string, error) {
	return s.page.HTML()
}

// CapturedBodies snapshots the intercepted API response bodies so far.
func (s *Session) CapturedBodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// EvalStrings runs a JS function returning an array of strings.
func (s *Session) EvalStrings(js string) ([]string, error) {
	val, err := s.page.Eval(js)
	if err != nil {
		return nil, err
	}
	raw, err := val.Value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) scrollTo(y int) error {
	_, err := s.page.Eval(fmt.Sprintf(`() => window.scrollTo(0, %d)`, y))
	return err
}

// PageHeight reports document.body.scrollHeight, used to size the
// interaction sequence.
func (s *Session) PageHeight() int {
	val, err := s.page.Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		return 0
	}
	return int(val.Value.Num())
}

func (s *Session) moveMouse(x, y float64) error {
	return s.page.Mouse.MoveTo(proto.Point{X: x, Y: y})
}

// clickFirst clicks the first visible element matching any selector.
// Returns false when nothing matched.
func (s *Session) clickFirst(selectors []string) (bool, error) {
	for _, sel := range selectors {
		el, err := s.page.Sleeper(rod.NotFoundSleeper).Element(sel)
		if err != nil {
			continue
		}
		if vis, err := el.Visible(); err != nil || !vis {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (s *Session) pressEscape() error {
	return s.page.Keyboard.Press(input.Escape)
}

func looksLikeAPI(url string) bool {
	lu := strings.ToLower(url)
	for _, hint := range apiPathHints {
		if strings.Contains(lu, hint) {
			return true
		}
	}
	return false
}
