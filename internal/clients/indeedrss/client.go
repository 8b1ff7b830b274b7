package indeedrss

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobcompass/jobcompass/internal/collectors"
	"github.com/jobcompass/jobcompass/internal/domain/models"
)

const sourceName = "indeed_rss"

type rssFeed struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Source      string `xml:"source"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads Indeed Canada RSS search feeds. Feed items carry the company
// in the title as "Title - Company" and no structured salary, so records are
// sparser than the API sources.
type Client struct {
	httpClient HTTPClient
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    "https://ca.indeed.com/rss",
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) Collect(ctx context.Context, query collectors.SearchQuery) ([]models.RawRecord, error) {

	params := url.Values{}
	params.Set("q", query.Role)
	params.Set("l", query.City)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("error decoding RSS feed: %v", err)
	}

	records := make([]models.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if record, ok := toRawRecord(item, query.City); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func toRawRecord(item rssItem, defaultCity string) (models.RawRecord, bool) {

	title, company := splitTitle(item.Title)
	if title == "" || item.Link == "" {
		return models.RawRecord{}, false
	}

	fields := map[string]any{
		"title": title,
		"url":   item.Link,
		"city":  defaultCity,
	}

	if company != "" {
		fields["company"] = company
	} else if item.Source != "" {
		fields["company"] = item.Source
	}
	if item.Description != "" {
		fields["description"] = stripTags(item.Description)
	}
	if item.PubDate != "" {
		fields["posted_date"] = isoDate(item.PubDate)
	}
	if item.GUID != "" {
		fields["id"] = item.GUID
	}

	return models.RawRecord{Source: sourceName, Fields: fields}, true
}

// isoDate rewrites an RFC 1123 pubDate as YYYY-MM-DD. Unparseable values
// pass through untouched.
func isoDate(pubDate string) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, pubDate); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return pubDate
}

func splitTitle(raw string) (title string, company string) {
	raw = strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, " - "); idx > 0 {
		return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+3:])
	}
	return raw, ""
}

func stripTags(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
