package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/progress"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 10 * time.Second
	// error responses are read up to this size for the error message
	maxErrorBody = 1024
)

// ErrUnavailable wraps transport level failures: dial errors, timeouts, broken bodies.
var ErrUnavailable = errors.New("remote analytics unavailable")

// StatusError is returned for any non 2xx answer of the analytics service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote analytics status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the remote analytics service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) FetchProgress(ctx context.Context, userID, limit int) ([]progress.ExerciseProgress, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	params.Set("limit", strconv.Itoa(limit))

	var progressList []progress.ExerciseProgress
	if err := c.get(ctx, "remote.analytics.exercise-progress", "/analytics/exercise-progress", params, &progressList); err != nil {
		return nil, err
	}
	return progressList, nil
}

func (c *Client) FetchRecords(ctx context.Context, userID int, exerciseName string) ([]progress.PersonalRecord, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	if exerciseName != "" {
		params.Set("exercise_name", exerciseName)
	}

	var records []progress.PersonalRecord
	if err := c.get(ctx, "remote.analytics.personal-records", "/analytics/personal-records", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) FetchStats(ctx context.Context, userID int) (progress.ExerciseStats, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))

	var stats progress.ExerciseStats
	if err := c.get(ctx, "remote.analytics.exercise-stats", "/analytics/exercise-stats", params, &stats); err != nil {
		return progress.ExerciseStats{}, err
	}
	return stats, nil
}

func (c *Client) get(ctx context.Context, spanName, path string, params url.Values, dest any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("calling remote analytics: %s", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}
	if err := json.Unmarshal(respBytes, dest); err != nil {
		return fmt.Errorf("unmarshal response from %s: %w", path, err)
	}

	return nil
}
