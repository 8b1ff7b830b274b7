package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jobcompass/jobcompass/internal/entities"
	"github.com/jobcompass/jobcompass/internal/repositories"
)

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) GenerateResponse(ctx context.Context, request string) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func newAssistantDb(t *testing.T) *sql.DB {
	dbContext, err := repositories.NewDbContext(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, dbContext.Migrate())
	t.Cleanup(func() { _ = dbContext.Close() })

	dbContext.DB.Create(&entities.JobRecord{
		Source: "jobbank", JobID: "jobbank_1", Title: "Data Analyst",
		City: "Toronto", Province: "ON", URL: "https://example.com/1",
	})

	sqlDB, err := dbContext.DB.DB()
	assert.NoError(t, err)
	return sqlDB
}

func Test_Assistant_Ask_ShouldRunGeneratedSelect(t *testing.T) {

	assert := assert.New(t)

	aiClient := &mockAiClient{}
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything).
		Return("```sql\nSELECT title, city FROM job_records WHERE city = 'Toronto'\n```", nil)

	answer, err := NewAssistant(aiClient, newAssistantDb(t)).
		Ask(context.Background(), "analyst jobs in Toronto")

	assert.NoError(err)
	assert.Contains(answer, "Data Analyst")
	assert.Contains(answer, "Toronto")
}

func Test_Assistant_Ask_ShouldRejectNonSelect(t *testing.T) {

	assert := assert.New(t)

	aiClient := &mockAiClient{}
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything).
		Return("DROP TABLE job_records", nil)

	_, err := NewAssistant(aiClient, newAssistantDb(t)).
		Ask(context.Background(), "remove everything")

	assert.Error(err)
}

func Test_Assistant_Ask_ShouldAllowTimestampColumns(t *testing.T) {

	assert := assert.New(t)

	aiClient := &mockAiClient{}
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything).
		Return("SELECT title, created_at, updated_at FROM job_records ORDER BY created_at DESC", nil)

	answer, err := NewAssistant(aiClient, newAssistantDb(t)).
		Ask(context.Background(), "most recently stored jobs")

	assert.NoError(err)
	assert.Contains(answer, "Data Analyst")
}

func Test_Assistant_Ask_ShouldRejectWriteInsideSelect(t *testing.T) {

	assert := assert.New(t)

	aiClient := &mockAiClient{}
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything).
		Return("SELECT 1; DELETE FROM job_records", nil)

	_, err := NewAssistant(aiClient, newAssistantDb(t)).
		Ask(context.Background(), "sneaky")

	assert.Error(err)
}

func Test_Assistant_Ask_ShouldReportEmptyResult(t *testing.T) {

	assert := assert.New(t)

	aiClient := &mockAiClient{}
	aiClient.On("GenerateResponse", mock.Anything, mock.Anything).
		Return("SELECT title FROM job_records WHERE city = 'Winnipeg'", nil)

	answer, err := NewAssistant(aiClient, newAssistantDb(t)).
		Ask(context.Background(), "jobs in Winnipeg")

	assert.NoError(err)
	assert.Equal("no matching jobs found", answer)
}
