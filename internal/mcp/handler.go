package mcp

import (
	"context"
	"encoding/json"

	"github.com/2beens/gymprogress/internal/progress"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type progressQueries interface {
	GetExerciseProgress(ctx context.Context, userID, limit int) []progress.ExerciseProgress
	GetPersonalRecords(ctx context.Context, userID int, exerciseName string) []progress.PersonalRecord
	GetExerciseStats(ctx context.Context, userID int) progress.ExerciseStats
}

// Handler handles MCP tool requests: validates input, runs the progress query, formats the result.
type Handler struct {
	service progressQueries
}

func NewHandler(service progressQueries) *Handler {
	return &Handler{
		service: service,
	}
}

// ExerciseProgressInput is the input for get_exercise_progress.
type ExerciseProgressInput struct {
	UserID int `json:"user_id" jsonschema:"User id"`
	Limit  int `json:"limit,omitempty" jsonschema:"Max number of exercises to return (default 20)"`
}

// GetExerciseProgressTool returns the MCP tool handler for get_exercise_progress.
func (h *Handler) GetExerciseProgressTool() func(context.Context, *mcp.CallToolRequest, ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id: must be a positive integer"), nil, nil
		}
		if in.Limit < 0 {
			return errorResult("Invalid limit: must not be negative"), nil, nil
		}
		return jsonResult(h.service.GetExerciseProgress(ctx, in.UserID, in.Limit)), nil, nil
	}
}

// PersonalRecordsInput is the input for get_personal_records.
type PersonalRecordsInput struct {
	UserID       int    `json:"user_id" jsonschema:"User id"`
	ExerciseName string `json:"exercise_name,omitempty" jsonschema:"Only records of this exercise (exact name, e.g. Bench Press)"`
}

// GetPersonalRecordsTool returns the MCP tool handler for get_personal_records.
func (h *Handler) GetPersonalRecordsTool() func(context.Context, *mcp.CallToolRequest, PersonalRecordsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PersonalRecordsInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id: must be a positive integer"), nil, nil
		}
		return jsonResult(h.service.GetPersonalRecords(ctx, in.UserID, in.ExerciseName)), nil, nil
	}
}

// ExerciseStatsInput is the input for get_exercise_stats.
type ExerciseStatsInput struct {
	UserID int `json:"user_id" jsonschema:"User id"`
}

// GetExerciseStatsTool returns the MCP tool handler for get_exercise_stats.
func (h *Handler) GetExerciseStatsTool() func(context.Context, *mcp.CallToolRequest, ExerciseStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseStatsInput) (*mcp.CallToolResult, any, error) {
		if in.UserID <= 0 {
			return errorResult("Invalid user_id: must be a positive integer"), nil, nil
		}
		return jsonResult(h.service.GetExerciseStats(ctx, in.UserID)), nil, nil
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
