package jobbank

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/jobcompass/jobcompass/internal/collectors"
	"github.com/jobcompass/jobcompass/internal/domain/models"
)

const sourceName = "jobbank"

var jobPathIDRe = regexp.MustCompile(`/(\d+)(?:\?|/|$)`)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client scrapes search result pages from Job Bank Canada.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	baseURL     string
	maxPages    int
}

func NewClient(maxPages int) *Client {
	if maxPages <= 0 {
		maxPages = 5
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    "https://www.jobbank.gc.ca",
		maxPages:   maxPages,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) Collect(ctx context.Context, query collectors.SearchQuery) ([]models.RawRecord, error) {

	var records []models.RawRecord

	for page := 1; page <= c.maxPages; page++ {

		doc, err := c.fetchPage(ctx, c.searchURL(query, page))
		if err != nil {
			return nil, err
		}

		pageRecords := c.parseResults(doc, query.City)
		if len(pageRecords) == 0 {
			break
		}
		records = append(records, pageRecords...)
	}

	return records, nil
}

func (c *Client) searchURL(query collectors.SearchQuery, page int) string {
	params := url.Values{}
	params.Set("searchstring", query.Role)
	params.Set("locationstring", query.City)
	params.Set("sort", "M")
	params.Set("page", fmt.Sprint(page))
	return c.baseURL + "/jobsearch/jobsearch?" + params.Encode()
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	req.Header.Set("Accept-Language", "en-CA,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *Client) parseResults(doc *goquery.Document, defaultCity string) []models.RawRecord {

	var records []models.RawRecord

	doc.Find("article.resultJobItem").Each(func(_ int, article *goquery.Selection) {
		if record, ok := c.parseArticle(article, defaultCity); ok {
			records = append(records, record)
		}
	})

	return records
}

func (c *Client) parseArticle(article *goquery.Selection, defaultCity string) (models.RawRecord, bool) {

	link := article.Find("h3.noctitle a").First()
	if link.Length() == 0 {
		link = article.Find("h3 a").First()
	}

	title := strings.TrimSpace(link.Find("span.noctitle-text").Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	href, _ := link.Attr("href")
	if title == "" || href == "" {
		return models.RawRecord{}, false
	}

	fields := map[string]any{
		"title": title,
		"url":   c.baseURL + href,
	}

	if id := jobPathIDRe.FindStringSubmatch(href); id != nil {
		fields["id"] = id[1]
	}
	if company := strings.TrimSpace(article.Find("li.business").Text()); company != "" {
		fields["company"] = company
	} else if company := strings.TrimSpace(article.Find("span.business").Text()); company != "" {
		fields["company"] = company
	}

	location := strings.TrimSpace(article.Find("li.location").Text())
	if location == "" {
		location = strings.TrimSpace(article.Find("span.location").Text())
	}
	if location != "" {
		fields["location"] = cleanLocation(location)
	} else {
		fields["city"] = defaultCity
	}

	if salary := strings.TrimSpace(article.Find("li.salary").Text()); salary != "" {
		fields["salary"] = cleanSalary(salary)
	} else if salary := strings.TrimSpace(article.Find("span.salary").Text()); salary != "" {
		fields["salary"] = cleanSalary(salary)
	}

	if date := strings.TrimSpace(article.Find("time").First().Text()); date != "" {
		fields["posted_date"] = date
	} else if datetime, ok := article.Find("time").First().Attr("datetime"); ok {
		fields["posted_date"] = datetime
	}

	return models.RawRecord{Source: sourceName, Fields: fields}, true
}

// cleanLocation drops the "Location" screen-reader prefix Job Bank embeds
// in the listing markup.
func cleanLocation(location string) string {
	location = strings.TrimSpace(strings.TrimPrefix(location, "Location"))
	return strings.Join(strings.Fields(location), " ")
}

func cleanSalary(salary string) string {
	salary = strings.TrimSpace(strings.TrimPrefix(salary, "Salary:"))
	return strings.Join(strings.Fields(salary), " ")
}
