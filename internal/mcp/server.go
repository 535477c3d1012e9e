package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the exercise progress tools.
// Used over stdio by cmd/progress_mcp and mounted at /mcp by the main service.
func NewServer(service progressQueries) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymprogress",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_progress",
		Description: "Returns per-exercise progress for a user: total sessions, first/last performed, personal records, progression trend (improving, stable, declining, new), average and best performance. Args: user_id; optional: limit (default 20). Most performed exercises come first.",
	}, h.GetExerciseProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_records",
		Description: "Returns the personal records of a user (max weight, reps, duration, distance per exercise), most recent first. Args: user_id; optional: exercise_name to filter by exact exercise name.",
	}, h.GetPersonalRecordsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_stats",
		Description: "Returns aggregate training stats of a user: totals, most frequent exercise, favorite exercise type, longest and current streak of consecutive training days, total weight lifted, distance and duration. Arg: user_id.",
	}, h.GetExerciseStatsTool())

	return s
}

// NewHTTPHandler serves the MCP server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
