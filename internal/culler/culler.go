package culler

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
	Skipped                   // not an http(s) URL
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Title      string
	URL        string
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// Options configures a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where 404s are treated as "possibly
	// private" instead of dead.
	ExcludeDomains []string
	Client         *http.Client
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// CheckURLs checks all bookmark URLs concurrently and returns results in
// the order of entries. Cancelling ctx stops outstanding requests; those
// entries come back Unreachable.
func CheckURLs(ctx context.Context, entries []model.Entry, opts Options, onProgress ProgressFunc) []Result {
	if len(entries) == 0 {
		return nil
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	client := opts.Client
	if client == nil {
		client = newClient(opts.Timeout)
	}

	results := make([]Result, len(entries))
	jobs := make(chan int, len(entries))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(ctx, client, entries[idx], excludeMap)

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(entries))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow redirects but limit to 10
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// checkURL checks a single URL and returns the result.
func checkURL(ctx context.Context, client *http.Client, e model.Entry, excludeMap map[string]bool) Result {
	result := Result{Title: e.Title, URL: e.Bookmark.URL}

	switch e.Bookmark.Scheme() {
	case "http", "https":
	default:
		result.Status = Skipped
		return result
	}

	// Try HEAD first (faster, less bandwidth)
	resp, err := do(ctx, client, http.MethodHead, e.Bookmark.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		// Some servers don't support HEAD
		resp, err = do(ctx, client, http.MethodGet, e.Bookmark.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		if isExcludedDomain(e.Bookmark.Host(), excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 500, 403 and friends may be temporary or need auth
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain reports whether host is an excluded domain or a subdomain of one.
func isExcludedDomain(host string, excludeMap map[string]bool) bool {
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// DeadTitles returns the titles of results with status Dead.
func DeadTitles(results []Result) []string {
	var titles []string
	for _, r := range results {
		if r.Status == Dead {
			titles = append(titles, r.Title)
		}
	}
	return titles
}
