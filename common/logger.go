package common

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger instance
var Logger *logrus.Logger

// InitLogger initializes the structured logger
func InitLogger(verbose bool) {
	Logger = logrus.New()

	// Set output to stdout
	Logger.SetOutput(os.Stdout)

	// Set formatter to JSON for structured logging
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	// Set log level based on verbose flag
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// InitTextLogger initializes the logger with text formatter (for development)
func InitTextLogger(verbose bool) {
	Logger = logrus.New()

	// Set output to stdout
	Logger.SetOutput(os.Stdout)

	// Set formatter to text for human-readable logs
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Set log level based on verbose flag
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// LogError logs an error with component context
func LogError(component, operation string, err error, fields logrus.Fields) {
	if Logger == nil {
		InitTextLogger(false)
	}

	if fields == nil {
		fields = logrus.Fields{}
	}

	fields["component"] = component
	fields["operation"] = operation

	Logger.WithFields(fields).Error(err.Error())
}

// LogInfo logs an info message with component context
func LogInfo(component, message string, fields logrus.Fields) {
	if Logger == nil {
		InitTextLogger(false)
	}

	if fields == nil {
		fields = logrus.Fields{}
	}

	fields["component"] = component

	Logger.WithFields(fields).Info(message)
}

// LogWarning logs a warning message with component context
func LogWarning(component, message string, fields logrus.Fields) {
	if Logger == nil {
		InitTextLogger(false)
	}

	if fields == nil {
		fields = logrus.Fields{}
	}

	fields["component"] = component

	Logger.WithFields(fields).Warn(message)
}
