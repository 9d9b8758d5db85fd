package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the JSON structured logger used across the app. Output goes to
// stderr so log lines never interleave with the terminal UI on stdout.
func New(component string) *logrus.Logger {
	return newWithOutput(component, os.Stderr)
}

func newWithOutput(component string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetLevel(logrus.InfoLevel)
	if raw := os.Getenv("TEUM_LOG_LEVEL"); raw != "" {
		if level, err := logrus.ParseLevel(raw); err == nil {
			log.SetLevel(level)
		}
	}
	log.AddHook(&componentHook{component: component})
	return log
}

// componentHook stamps every entry with the emitting component name.
type componentHook struct {
	component string
}

func (h *componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *componentHook) Fire(entry *logrus.Entry) error {
	entry.Data["component"] = h.component
	return nil
}
