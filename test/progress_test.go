package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/gymprogress/internal/progress"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getJSON(ctx context.Context, path string, dest any) string {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", testAgent)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(respBytes, dest), string(respBytes))

	return resp.Header.Get(progress.SourceHeader)
}

func (s *IntegrationTestSuite) TestExerciseProgress() {
	ctx := context.Background()
	t := s.T()
	path := fmt.Sprintf("/progress/users/%d/exercises?limit=10", testUserID)

	var progressList []progress.ExerciseProgress
	source := s.getJSON(ctx, path, &progressList)
	// the fake remote only knows stats, so this is derived from postgres
	assert.Equal(t, string(progress.SourceLocal), source)
	require.Len(t, progressList, 2)

	squat := progressList[0]
	assert.Equal(t, "Squat", squat.ExerciseName)
	assert.Equal(t, progress.TypeStrength, squat.ExerciseType)
	assert.Equal(t, 6, squat.TotalWorkouts)
	assert.Equal(t, "2024-05-01", squat.FirstPerformed)
	assert.Equal(t, "2024-05-06", squat.LastPerformed)
	assert.Equal(t, progress.TrendImproving, squat.ProgressionTrend)
	require.NotNil(t, squat.BestPerformance.Weight)
	assert.Equal(t, 105.0, *squat.BestPerformance.Weight)

	run := progressList[1]
	assert.Equal(t, "Morning Run", run.ExerciseName)
	assert.Equal(t, progress.TypeCardio, run.ExerciseType)
	assert.Equal(t, progress.TrendNew, run.ProgressionTrend)

	var cached []progress.ExerciseProgress
	source = s.getJSON(ctx, path, &cached)
	assert.Equal(t, string(progress.SourceCache), source)
	assert.Equal(t, progressList, cached)
}

func (s *IntegrationTestSuite) TestPersonalRecords() {
	ctx := context.Background()
	t := s.T()

	var records []progress.PersonalRecord
	s.getJSON(ctx, fmt.Sprintf("/progress/users/%d/records?exercise=Squat", testUserID), &records)
	require.Len(t, records, 2)
	assert.Equal(t, progress.RecordMaxWeight, records[0].RecordType)
	assert.Equal(t, 105.0, records[0].RecordValue)
	assert.Equal(t, "kg", records[0].RecordUnit)
	assert.Equal(t, "squat-6", records[0].WorkoutID)
	assert.Equal(t, progress.RecordMaxReps, records[1].RecordType)
	assert.Equal(t, "2024-05-01", records[1].AchievedDate)

	var all []progress.PersonalRecord
	s.getJSON(ctx, fmt.Sprintf("/progress/users/%d/records", testUserID), &all)
	require.Len(t, all, 4)
	assert.Equal(t, "2024-05-10", all[0].AchievedDate)
	assert.Equal(t, "2024-05-10", all[1].AchievedDate)
}

func (s *IntegrationTestSuite) TestExerciseStats() {
	ctx := context.Background()
	t := s.T()
	path := fmt.Sprintf("/progress/users/%d/stats", testUserID)

	var stats progress.ExerciseStats
	source := s.getJSON(ctx, path, &stats)
	assert.Equal(t, string(progress.SourceRemote), source)
	assert.Equal(t, "Remote Squat", stats.MostFrequentExercise)

	// remote going down does not matter while the entry is fresh
	s.remoteDown.Store(true)
	defer s.remoteDown.Store(false)
	callsBefore := s.remoteCalls.Load()

	source = s.getJSON(ctx, path, &stats)
	assert.Equal(t, string(progress.SourceCache), source)
	assert.Equal(t, 42, stats.TotalWorkouts)
	assert.Equal(t, callsBefore, s.remoteCalls.Load())
}

func (s *IntegrationTestSuite) TestExerciseStats_RemoteDownFallsBackToLocal() {
	ctx := context.Background()
	t := s.T()

	s.remoteDown.Store(true)
	defer s.remoteDown.Store(false)

	var stats progress.ExerciseStats
	// a different user, so nothing is cached yet
	source := s.getJSON(ctx, fmt.Sprintf("/progress/users/%d/stats", testUserID+1), &stats)
	assert.Equal(t, string(progress.SourceLocal), source)
	assert.Equal(t, progress.EmptyStats(), stats)
}

func (s *IntegrationTestSuite) TestMCPOverHTTP() {
	ctx := context.Background()
	t := s.T()

	client := mcp.NewClient(&mcp.Implementation{Name: "integration", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: serverEndpoint + "/mcp"}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_personal_records",
		Arguments: map[string]any{"user_id": testUserID, "exercise_name": "Morning Run"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var records []progress.PersonalRecord
	require.NoError(t, json.Unmarshal([]byte(text.Text), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "Morning Run", r.ExerciseName)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_exercise_stats",
		Arguments: map[string]any{"user_id": 0},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
