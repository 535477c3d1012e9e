package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/gymprogress/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger: level, format, outputs and the sentry hook.
func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 0.2,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			logrus.Infoln("Sentry set up successfully")
		}
	}

	out, err := output(params.LogFileName, params.LogToStdout)
	if err != nil {
		logrus.SetOutput(os.Stdout)
		logrus.Errorf("log file setup failed, writing logs only to STDOUT: %s", err)
		return
	}
	logrus.SetOutput(out)
}

func output(logFileName string, toStdout bool) (io.Writer, error) {
	if logFileName == "" {
		return os.Stdout, nil
	}

	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(logFileName), 0750); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    50, // megabytes
		MaxBackups: 20,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}

	if toStdout {
		return pkg.NewCombinedWriter(os.Stdout, lumberJackLogger), nil
	}
	return lumberJackLogger, nil
}

// GetLevel maps a config level name to a logrus level, info when unknown.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
