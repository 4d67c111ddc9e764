/*
 * T990 - Simulator log handler.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is the slog backend for the simulator. Records format as
// one line each: time stamp, a two letter level tag, the message and
// any attributes. Everything at or above the minimum level reaches
// the log file when one is configured; the console sees warnings and
// errors, or every record when debug is on or no file exists.
type Handler struct {
	mu      *sync.Mutex
	file    io.Writer // nil when no log file is configured
	min     slog.Leveler
	console slog.Level // lowest level echoed to the console
	prefix  string     // open group path, dot separated
	attrs   string     // attributes bound by WithAttrs, preformatted
}

// Create a handler. The file may be nil for console only operation.
func New(file io.Writer, min slog.Leveler, debug bool) *Handler {
	if min == nil {
		min = slog.LevelInfo
	}
	console := slog.LevelWarn
	if debug || file == nil {
		console = slog.LevelDebug
	}
	return &Handler{
		mu:      &sync.Mutex{},
		file:    file,
		min:     min,
		console: console,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		h.formatAttr(&b, a)
	}
	nh.attrs = b.String()
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	nh := *h
	if name != "" {
		if nh.prefix != "" {
			nh.prefix += "."
		}
		nh.prefix += name
	}
	return &nh
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.formatAttr(&b, a)
		return true
	})
	b.WriteByte('\n')
	line := []byte(b.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.file != nil {
		_, err = h.file.Write(line)
	}
	if r.Level >= h.console {
		if _, err2 := os.Stderr.Write(line); err == nil {
			err = err2
		}
	}
	return err
}

func (h *Handler) formatAttr(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	if h.prefix != "" {
		b.WriteString(h.prefix)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "EE"
	case level >= slog.LevelWarn:
		return "WW"
	case level >= slog.LevelInfo:
		return "II"
	}
	return "DD"
}
