// Package browser renders HTML to PDF with headless Chrome over the
// DevTools protocol: launch or connect at startup, one short-lived page
// per render, print to PDF, close.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrNotStarted is returned when RenderPDF is called before Start.
var ErrNotStarted = errors.New("browser renderer not started")

// Config configures the renderer.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty launches a local headless Chrome.
	RemoteURL string
}

// Engine implements render.Renderer with a shared browser process and a
// fresh page per render. Safe for concurrent use.
type Engine struct {
	cfg Config

	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// New creates an Engine. Call Start to launch or connect Chrome.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Start launches a local headless Chrome, or connects to the configured
// remote instance.
func (e *Engine) Start(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	wsURL := e.cfg.RemoteURL

	if wsURL == "" {
		lnch := launcher.New().Headless(true)

		u, err := lnch.Launch()
		if err != nil {
			return fmt.Errorf("browser: launch: %w", err)
		}

		wsURL = u
		e.lnch = lnch

		slog.Info("browser: launched local chrome", "url", wsURL)
	} else {
		slog.Info("browser: connecting to remote chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)

	err := b.Connect()
	if err != nil {
		return fmt.Errorf("browser: connect: %w", err)
	}

	e.browser = b

	return nil
}

// Stop closes the browser connection and kills a locally launched Chrome.
func (e *Engine) Stop(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		err := e.browser.Close()
		if err != nil {
			slog.Warn("browser: close failed", "error", err)
		}

		e.browser = nil
	}

	if e.lnch != nil {
		e.lnch.Cleanup()
		e.lnch = nil
	}

	return nil
}

// RenderPDF loads the HTML document into a fresh page and prints it.
func (e *Engine) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	e.mu.RLock()
	browser := e.browser
	e.mu.RUnlock()

	if browser == nil {
		return nil, ErrNotStarted
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("browser: open page: %w", err)
	}

	defer func() {
		closeErr := page.Close()
		if closeErr != nil {
			slog.Warn("browser: page close failed", "error", closeErr)
		}
	}()

	err = page.SetDocumentContent(string(html))
	if err != nil {
		return nil, fmt.Errorf("browser: set content: %w", err)
	}

	err = page.WaitLoad()
	if err != nil {
		return nil, fmt.Errorf("browser: wait load: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: print to pdf: %w", err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("browser: read pdf stream: %w", err)
	}

	return pdf, nil
}
