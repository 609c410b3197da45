package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the process-wide logger for one relay binary. Output goes
// to stderr so relayctl's saved-file report on stdout stays machine-readable.
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ConnLogger derives a per-connection logger so every event from one handling
// unit carries the relay node and remote peer without restating them.
func ConnLogger(node, remote string) zerolog.Logger {
	return log.With().Str("node", node).Str("remote", remote).Logger()
}
