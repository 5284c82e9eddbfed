// Package render turns assembled resume markup into PDF bytes using a
// headless Chrome instance.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer produces a PDF from a complete document body.
type Renderer interface {
	RenderPDF(ctx context.Context, body string) ([]byte, error)
}

// ChromeRenderer drives a headless Chrome via the DevTools protocol. A fresh
// browser is launched per render; the process is short-lived and renders are
// infrequent enough that pooling has not been worth the complexity.
type ChromeRenderer struct {
	// ChromePath overrides browser discovery when set.
	ChromePath string
	// Timeout bounds a single render including browser startup.
	Timeout time.Duration
}

// NewChromeRenderer constructs a renderer. chromePath may be empty, in which
// case the allocator falls back to its default binary lookup.
func NewChromeRenderer(chromePath string) *ChromeRenderer {
	return &ChromeRenderer{ChromePath: chromePath, Timeout: 60 * time.Second}
}

// RenderPDF wraps body in the fixed letter-size envelope and prints it. The
// page dimensions mirror the envelope's @page rule; PreferCSSPageSize lets
// the stylesheet win if they ever diverge.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, body string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	// Serve the document from disk instead of a data URL; data URLs choke on
	// large inlined photos in some Chrome builds.
	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	doc := fmt.Sprintf(documentEnvelope, body)
	if err := os.WriteFile(htmlPath, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("render: write document: %w", err)
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// Letter: 8.5in x 11in.
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render: print: %w", err)
	}
	return pdf, nil
}
