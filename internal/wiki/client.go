package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultBaseURL is the English Wikipedia origin.
	DefaultBaseURL = "https://en.wikipedia.org"

	// contentClass marks the div holding the day's event list on a
	// Portal:Current_events page.
	contentClass = "current-events-content"

	// dateLayout matches the portal's page naming, e.g. "2024 June 05".
	dateLayout = "2006 January 02"
)

var (
	// ErrUnavailable means the page could not be fetched at all.
	ErrUnavailable = errors.New("current events page unavailable")

	// ErrNoContent means the page was fetched but held no event container.
	ErrNoContent = errors.New("no current events content on page")
)

// Client fetches and parses Wikipedia current-events pages.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Day is one fetched portal page: the event container node plus the labels
// derived from the date.
type Day struct {
	Content   *html.Node // div.current-events-content
	DateLabel string     // "2006 January 02", matches the page's section heading
	Base      *url.URL   // origin for resolving relative links
}

// DateLabel formats a day the way the portal names its pages.
func DateLabel(day time.Time) string {
	return day.Format(dateLayout)
}

// PageURL returns the portal page URL for a day.
func (c *Client) PageURL(day time.Time) string {
	page := "Portal:Current_events/" + strings.ReplaceAll(DateLabel(day), " ", "_")
	return c.baseURL.String() + "/wiki/" + page
}

// FetchDay GETs the portal page for a day and locates the event container.
// A transport failure or non-2xx status yields ErrUnavailable; a parseable
// page without the container yields ErrNoContent.
func (c *Client) FetchDay(ctx context.Context, day time.Time) (*Day, error) {
	pageURL := c.PageURL(day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrUnavailable, pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	content := findContent(doc)
	if content == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, pageURL)
	}

	return &Day{
		Content:   content,
		DateLabel: DateLabel(day),
		Base:      c.baseURL,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// findContent locates the first div carrying the content class.
func findContent(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, contentClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findContent(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
