package adzuna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jobcompass/jobcompass/internal/collectors"
	"github.com/jobcompass/jobcompass/internal/domain/models"
)

const sourceName = "adzuna"

type searchResponse struct {
	Results []jobResult `json:"results"`
}

type jobResult struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Company     company  `json:"company"`
	Location    location `json:"location"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	Created     string   `json:"created"`
	RedirectURL string   `json:"redirect_url"`
}

type company struct {
	DisplayName string `json:"display_name"`
}

type location struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Adzuna jobs API for Canada.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	appID      string
	appKey     string
	maxPages   int
}

func NewClient(appID, appKey string, maxPages int) *Client {
	if maxPages <= 0 {
		maxPages = 3
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    "https://api.adzuna.com/v1/api/jobs/ca/search",
		appID:      appID,
		appKey:     appKey,
		maxPages:   maxPages,
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

	var records []models.RawRecord

	for page := 1; page <= c.maxPages; page++ {

		body, err := c.sendRequest(ctx, c.searchURL(query, page))
		if err != nil {
			return nil, err
		}

		var response searchResponse
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
			return nil, fmt.Errorf("error decoding JSON response: %v", err)
		}
		if len(response.Results) == 0 {
			break
		}

		for _, result := range response.Results {
			records = append(records, toRawRecord(result, query.City))
		}
	}

	return records, nil
}

func (c *Client) searchURL(query collectors.SearchQuery, page int) string {
	params := url.Values{}
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	params.Set("what", query.Role)
	params.Set("where", query.City)
	params.Set("results_per_page", "20")
	params.Set("content-type", "application/json")
	return fmt.Sprintf("%s/%d?%s", c.baseURL, page, params.Encode())
}

func (c *Client) sendRequest(ctx context.Context, requestURL string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}

func toRawRecord(result jobResult, defaultCity string) models.RawRecord {

	fields := map[string]any{
		"title":       result.Title,
		"description": result.Description,
		"company":     result.Company.DisplayName,
		"url":         result.RedirectURL,
	}

	if result.ID != "" {
		fields["id"] = result.ID
	}
	if result.Location.DisplayName != "" {
		fields["location"] = result.Location.DisplayName
	} else {
		fields["city"] = defaultCity
	}
	if result.SalaryMin != nil {
		fields["salary_min"] = int(*result.SalaryMin)
	}
	if result.SalaryMax != nil {
		fields["salary_max"] = int(*result.SalaryMax)
	}
	if result.Created != "" {
		fields["posted_date"] = result.Created
	}

	return models.RawRecord{Source: sourceName, Fields: fields}
}
