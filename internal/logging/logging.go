package logging

import (
	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logger's level and formatter. Unknown levels
// fall back to info.
func Setup(level string, json bool) {
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
