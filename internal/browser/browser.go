// Package browser wraps a headless Chromium instance behind the
// "advanced" extraction capability. When the browser cannot launch the
// run degrades to the static strategies; nothing here is required for
// standard mode.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type Config struct {
	Headless bool
	ProxyURL string
}

type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// New launches the browser. Callers treat an error here as "advanced
// capability unavailable", not as a fatal condition.
func New(cfg Config) (*Browser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser launch: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("browser connect: %w", err)
	}

	return &Browser{browser: b, launcher: l}, nil
}

func (b *Browser) newPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	})
	_, _ = page.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)

	return page, nil
}

// Close shuts the browser down and kills the launched process. Must run
// on every exit path; no session outlives the run.
func (b *Browser) Close() error {
	if b == nil {
		return nil
	}
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return err
}
