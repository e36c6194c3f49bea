package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Options controls how the dashboard is captured
type Options struct {
	Width   int
	Height  int
	Visible bool          // Show browser window (for debugging)
	Timeout time.Duration // Overall deadline, default 1 minute
}

// PageURL returns the dashboard URL that opens a page section
func PageURL(base, page string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing dashboard url: %w", err)
	}
	if page == "" {
		return u.String(), nil
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/pages/" + url.PathEscape(page)
	return u.String(), nil
}

// Capture loads a dashboard page in a headless browser and returns a full-page PNG
func Capture(ctx context.Context, pageURL string, opts Options) ([]byte, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Visible),
		chromedp.WindowSize(opts.Width, opts.Height),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(browserCtx,
		emulation.SetDeviceMetricsOverride(int64(opts.Width), int64(opts.Height), 1, false),
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond), // let chart images finish loading
		// quality 100 makes chromedp encode PNG instead of JPEG
		chromedp.FullScreenshot(&buf, 100),
	); err != nil {
		return nil, fmt.Errorf("capturing %s: %w", pageURL, err)
	}

	return buf, nil
}
