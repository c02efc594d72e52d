package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process logger. Development gets human readable console
// output, every other environment gets JSON lines.
func Init(environment string) {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if environment == "development" || environment == "" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// SetOutput redirects the logger, used by tests and the CLI.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

func Debug(msg string, args ...any) { withFields(log.Debug(), args).Msg(msg) }
func Info(msg string, args ...any)  { withFields(log.Info(), args).Msg(msg) }
func Warn(msg string, args ...any)  { withFields(log.Warn(), args).Msg(msg) }
func Error(msg string, args ...any) { withFields(log.Error(), args).Msg(msg) }

func Fatal(msg string, args ...any) {
	withFields(log.Error(), args).Msg(msg)
	os.Exit(1)
}

// withFields accepts key/value pairs. A bare error is attached as "error" and any
// other unpaired value is attached under "arg".
func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			e = e.Err(v)
		case string:
			if i+1 < len(args) {
				if err, ok := args[i+1].(error); ok {
					e = e.AnErr(v, err)
				} else {
					e = e.Interface(v, args[i+1])
				}
				i++
				continue
			}
			e = e.Str("arg", v)
		default:
			e = e.Str("arg", fmt.Sprint(v))
		}
	}
	return e
}
