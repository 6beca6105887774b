package helper

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger points the global zerolog logger at a console writer on out.
func SetupLogger(level string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// Libraries that write through the standard logger end up in zerolog too.
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger.With().Str("source", "stdlog").Logger())
	return nil
}

// pretty print
func PrettyPrint(out io.Writer, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Error pretty printing")
		return
	}
	fmt.Fprintln(out, string(b))
}
