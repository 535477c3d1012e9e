package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("whatever"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
}

func TestOutput(t *testing.T) {
	out, err := output("", true)
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, out)

	logFile := filepath.Join(t.TempDir(), "nested", "service")
	out, err = output(logFile, false)
	require.NoError(t, err)
	_, err = out.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, out.(io.Closer).Close())

	content, err := os.ReadFile(logFile + ".log")
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(content))
}

func TestSentryHook_Fire(t *testing.T) {
	var captured []*sentry.Event
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.capture = func(event *sentry.Event) *sentry.EventID {
		captured = append(captured, event)
		return nil
	}

	logger := logrus.New()
	logger.SetOutput(nopWriter{})
	logger.AddHook(hook)

	logger.Info("not forwarded")
	logger.WithError(errors.New("database is locked")).
		WithField("user", 4).
		Error("local derivation failed")

	require.Len(t, captured, 1)
	event := captured[0]
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "local derivation failed", event.Message)
	assert.Equal(t, 4, event.Extra["user"])
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "database is locked", event.Exception[0].Value)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
