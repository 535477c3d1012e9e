package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/workouts"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	serverPort  = 9123
	serverHost  = "127.0.0.1"
	testDBName  = "gymprogress"
	testUserID  = 5
	testAgent   = "progressctl/integration"
	metricsPort = "21120"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// IntegrationTestSuite runs the service against postgres and redis containers
// and a fake remote analytics service that can be switched off.
type IntegrationTestSuite struct {
	suite.Suite

	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()

	remote      *httptest.Server
	remoteDown  atomic.Bool
	remoteCalls atomic.Int32
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration suite needs docker")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}
	fmt.Println("dockertest pool ping successful")

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}
	fmt.Println("redis setup successful")

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}
	fmt.Println("postgres setup successful")

	s.remote = httptest.NewServer(http.HandlerFunc(s.fakeRemote))
	s.teardown = append(s.teardown, s.remote.Close)

	cfg := getTestConfig(redisPort, pgPort, s.remote.URL)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}

	s.server.Serve(cfg.Host, cfg.Port)
	if err := s.dockerPool.Retry(func() error {
		resp, err := s.httpClient.Get(serverEndpoint + "/version")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		s.cleanup()
		log.Fatalf("server not reachable: %s", err)
	}
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort, remoteURL string) *config.Config {
	return &config.Config{
		Environment:           "test",
		Host:                  serverHost,
		Port:                  serverPort,
		LogLevel:              "debug",
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: metricsPort,
		StoreDriver:           "postgres",
		PostgresHost:          "localhost",
		PostgresPort:          postgresPort,
		PostgresDBName:        testDBName,
		CacheStore:            "redis",
		CacheMemorySizeMiB:    1,
		RedisHost:             "localhost",
		RedisPort:             redisPort,
		RemoteAnalyticsURL:    remoteURL,
		RemoteTimeoutMillis:   2000,
		RateLimitPerMinute:    1000,
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, testDBName)
	s.DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db: %w", err)
	}

	if err := s.dockerPool.Retry(s.DB.Ping); err != nil {
		return "", fmt.Errorf("connect to db: %w", err)
	}

	if _, err := s.DB.Exec(workouts.PgSchema); err != nil {
		return "", fmt.Errorf("apply schema: %w", err)
	}
	if err := seedWorkouts(s.DB); err != nil {
		return "", fmt.Errorf("seed workouts: %w", err)
	}

	return pgPort, nil
}

func seedWorkouts(db *sql.DB) error {
	squatWeights := []float64{80, 80, 85, 95, 100, 105}
	for i, weight := range squatWeights {
		workoutID := "squat-" + strconv.Itoa(i+1)
		date := time.Date(2024, 5, 1+i, 0, 0, 0, 0, time.UTC)
		if _, err := db.Exec(
			`INSERT INTO workout (id, user_id, name, date) VALUES ($1, $2, $3, $4)`,
			workoutID, testUserID, "Leg day", date,
		); err != nil {
			return err
		}
		if _, err := db.Exec(
			`INSERT INTO workout_exercise (workout_id, position, name, weight, reps) VALUES ($1, 0, 'Squat', $2, 5)`,
			workoutID, weight,
		); err != nil {
			return err
		}
	}

	if _, err := db.Exec(
		`INSERT INTO workout (id, user_id, name, date) VALUES ('run-1', $1, 'Cardio', '2024-05-10')`,
		testUserID,
	); err != nil {
		return err
	}
	_, err := db.Exec(
		`INSERT INTO workout_exercise (workout_id, position, name, duration, distance) VALUES ('run-1', 0, 'Morning Run', 32, 6.4)`,
	)
	return err
}

// fakeRemote answers stats only; everything else is left to local derivation.
func (s *IntegrationTestSuite) fakeRemote(w http.ResponseWriter, r *http.Request) {
	s.remoteCalls.Add(1)
	if s.remoteDown.Load() {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}
	if r.URL.Path != "/analytics/exercise-stats" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{
		"total_exercises": 99,
		"total_workouts": 42,
		"most_frequent_exercise": "Remote Squat",
		"longest_streak": 9,
		"current_streak": 1,
		"favorite_exercise_type": "strength",
		"total_weight_lifted": 1000,
		"total_distance_covered": 0,
		"total_duration": 0
	}`))
}
