package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SourceHeader tells the client which stage produced the response.
const SourceHeader = "X-Progress-Source"

type progressQueries interface {
	GetExerciseProgressWithOutcome(ctx context.Context, userID, limit int) ([]ExerciseProgress, Outcome)
	GetPersonalRecordsWithOutcome(ctx context.Context, userID int, exerciseName string) ([]PersonalRecord, Outcome)
	GetExerciseStatsWithOutcome(ctx context.Context, userID int) (ExerciseStats, Outcome)
}

type Handler struct {
	service progressQueries
}

func NewHandler(service progressQueries) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleExerciseProgress serves GET /progress/users/{userId}/exercises?limit=N
func (handler *Handler) HandleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.exercises")
	defer span.End()

	userID, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit parameter (must be positive integer)", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	progressList, outcome := handler.service.GetExerciseProgressWithOutcome(ctx, userID, limit)
	writeResult(w, progressList, outcome)
}

// HandlePersonalRecords serves GET /progress/users/{userId}/records?exercise=NAME
func (handler *Handler) HandlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.records")
	defer span.End()

	userID, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	records, outcome := handler.service.GetPersonalRecordsWithOutcome(ctx, userID, r.URL.Query().Get("exercise"))
	writeResult(w, records, outcome)
}

// HandleExerciseStats serves GET /progress/users/{userId}/stats
func (handler *Handler) HandleExerciseStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.stats")
	defer span.End()

	userID, ok := userIDFromPath(w, r)
	if !ok {
		return
	}

	stats, outcome := handler.service.GetExerciseStatsWithOutcome(ctx, userID)
	writeResult(w, stats, outcome)
}

func userIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	userIDStr := mux.Vars(r)["userId"]
	if userIDStr == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return 0, false
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil || userID <= 0 {
		http.Error(w, "error, invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

// writeResult always answers 200; a failed outcome still carries the safe default.
func writeResult(w http.ResponseWriter, result any, outcome Outcome) {
	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal progress result: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set(SourceHeader, string(outcome.Source))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}
