package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much NewLogger writes.
type Options struct {
	Level string
	// File, when set, receives the logs through a rotating writer as well as stdout.
	File string
	Env  string
}

// NewLogger returns a custom JSON logger
func NewLogger(opts Options) logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(level(opts.Level))
	jsonFormatter := logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyLevel: "level",
		},
	}
	logger.SetFormatter(&jsonFormatter)

	switch {
	case opts.Env == "test":
		logger.SetOutput(io.Discard)
	case opts.File != "":
		if !strings.HasSuffix(opts.File, ".log") {
			opts.File += ".log"
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  50, // megabytes
			Compress: true,
		}))
	}

	return logger
}

func level(l string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.ToLower(l))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
