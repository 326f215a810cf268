// Package logfields holds the canonical slog keys shared by the build and
// the preview server.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyPage       = "page"
	KeyEEP        = "eep"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func RunID(id string) slog.Attr   { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Page(p string) slog.Attr     { return slog.String(KeyPage, p) }
func EEP(number string) slog.Attr { return slog.String(KeyEEP, number) }

// Duration reports d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
