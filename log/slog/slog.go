// Package slog adapts a log/slog.Logger to flashsale.Logger.
package slog

import (
	"log/slog"

	"github.com/unkn0wn-root/flashsale"
)

type Logger struct{ L *slog.Logger }

func (s Logger) Debug(msg string, f flashsale.Fields) { s.L.Debug(msg, args(f)...) }
func (s Logger) Info(msg string, f flashsale.Fields)  { s.L.Info(msg, args(f)...) }
func (s Logger) Warn(msg string, f flashsale.Fields)  { s.L.Warn(msg, args(f)...) }
func (s Logger) Error(msg string, f flashsale.Fields) { s.L.Error(msg, args(f)...) }

func args(f flashsale.Fields) []any {
	if len(f) == 0 {
		return nil
	}
	out := make([]any, 0, len(f)*2)
	for k, v := range f {
		out = append(out, k, v)
	}
	return out
}
