package indeedrss

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jobcompass/jobcompass/internal/collectors"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func feedMock() (*http.Response, error) {
	file, err := os.ReadFile("testdata/feed.xml")

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func Test_IndeedRSSClient_Collect_ShouldParseFeed(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		query := req.URL.Query()
		return query.Get("q") == "software developer" && query.Get("l") == "Toronto"
	})).Return(feedMock())

	client := NewClient()
	client.SetHTTPClient(mockClient)

	records, err := client.Collect(context.Background(),
		collectors.SearchQuery{Role: "software developer", City: "Toronto"})

	assert.NoError(err)
	assert.Len(records, 2)

	first := records[0]
	assert.Equal("indeed_rss", first.Source)
	assert.Equal("Software Developer", first.String("title"))
	assert.Equal("Lakeshore Systems", first.String("company"))
	assert.Equal("Toronto", first.String("city"))
	assert.Equal("abc123def456", first.String("id"))
	assert.Equal("2025-06-12", first.String("posted_date"))
	assert.False(strings.Contains(first.String("description"), "<p>"))

	second := records[1]
	assert.Equal("QA Analyst", second.String("title"))
	assert.Equal("Birchwood Testing", second.String("company"))
}

func Test_IndeedRSSClient_Collect_ShouldFailOnBadStatus(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 403,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil)

	client := NewClient()
	client.SetHTTPClient(mockClient)

	_, err := client.Collect(context.Background(), collectors.SearchQuery{Role: "x", City: "y"})
	assert.Error(err)
}
