package browser

import (
	"context"
	"math/rand"
	"time"
)

type ActionKind string

const (
	ActionScroll       ActionKind = "scroll"
	ActionMouseMove    ActionKind = "mouse_move"
	ActionContactClick ActionKind = "contact_click"
	ActionDismiss      ActionKind = "dismiss"
)

// Action is one step of the human-like interaction sequence. The whole
// sequence runs under a single deadline; individual steps are
// best-effort and never abort the rest.
type Action struct {
	Kind    ActionKind
	ScrollY int
	Pause   time.Duration
}

var contactSelectors = []string{
	`button[aria-label*="Connect"]`,
	`button[aria-label*="Message"]`,
	`button[aria-label*="Contact"]`,
	`a[href*="message"]`,
}

// HumanSequence builds a progressive scroll with randomized pauses and
// pointer movement, ending in a single attempt to open a contact
// control. Heights beyond 2000px are not worth scrolling for contact
// data, matching what profile pages actually render above the fold.
func HumanSequence(pageHeight int) []Action {
	if pageHeight > 2000 {
		pageHeight = 2000
	}

	var seq []Action
	for y := 0; y < pageHeight; y += 300 {
		seq = append(seq,
			Action{Kind: ActionMouseMove, Pause: 0},
			Action{Kind: ActionScroll, ScrollY: y, Pause: randomPause(100, 300)},
		)
	}
	seq = append(seq,
		Action{Kind: ActionScroll, ScrollY: 0, Pause: 500 * time.Millisecond},
		Action{Kind: ActionContactClick, Pause: 2 * time.Second},
		Action{Kind: ActionDismiss, Pause: 500 * time.Millisecond},
	)
	return seq
}

// Perform executes the sequence until ctx expires. Returns whether a
// contact control was actually clicked, so the caller knows a re-read
// of the page might surface new content.
func (s *Session) Perform(ctx context.Context, actions []Action) (clicked bool) {
	for _, a := range actions {
		if ctx.Err() != nil {
			return clicked
		}

		switch a.Kind {
		case ActionScroll:
			_ = s.scrollTo(a.ScrollY)
		case ActionMouseMove:
			_ = s.moveMouse(float64(100+rand.Intn(400)), float64(100+rand.Intn(400)))
		case ActionContactClick:
			if ok, _ := s.clickFirst(contactSelectors); ok {
				clicked = true
			} else {
				continue // nothing to wait for
			}
		case ActionDismiss:
			if !clicked {
				continue
			}
			_ = s.pressEscape()
		}

		if a.Pause > 0 {
			select {
			case <-ctx.Done():
				return clicked
			case <-time.After(a.Pause):
			}
		}
	}
	return clicked
}

func randomPause(minMs, maxMs int) time.Duration {
	return time.Duration(minMs+rand.Intn(maxMs-minMs)) * time.Millisecond
}
