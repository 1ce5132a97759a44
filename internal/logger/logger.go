package logger

import (
	"os"
	"strings"
	"time"

	"github.com/nkhalid/wifiwatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. This is the operator-facing
// log on stderr; the monitored event log file is written separately.
func Init(lcfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(lcfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(lcfg.Format) == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// default console
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
