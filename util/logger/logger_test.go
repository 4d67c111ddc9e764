/*
 * T990 - Log handler test cases.
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
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(New(&buf, slog.LevelDebug, false))
	log.Info("machine started", "pc", "0100")

	line := buf.String()
	if !strings.Contains(line, "II machine started") {
		t.Errorf("level tag or message missing: %q", line)
	}
	if !strings.Contains(line, " pc=0100") {
		t.Errorf("attribute missing: %q", line)
	}
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Errorf("record should be a single line: %q", line)
	}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(New(&buf, slog.LevelWarn, false))
	log.Info("quiet")
	log.Warn("loud")

	line := buf.String()
	if strings.Contains(line, "quiet") {
		t.Errorf("info should be below the minimum: %q", line)
	}
	if !strings.Contains(line, "WW loud") {
		t.Errorf("warning should pass: %q", line)
	}
}

func TestBoundAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(New(&buf, slog.LevelDebug, false))
	log = log.With("unit", "cpu").WithGroup("flow")
	log.Debug("state change", "next", "B")

	line := buf.String()
	if !strings.Contains(line, "DD state change") {
		t.Errorf("debug tag or message missing: %q", line)
	}
	if !strings.Contains(line, " unit=cpu") {
		t.Errorf("bound attribute missing: %q", line)
	}
	if !strings.Contains(line, " flow.next=B") {
		t.Errorf("group prefix missing: %q", line)
	}
}

func TestLevelTags(t *testing.T) {
	cases := []struct {
		level slog.Level
		tag   string
	}{
		{slog.LevelDebug, "DD"},
		{slog.LevelInfo, "II"},
		{slog.LevelWarn, "WW"},
		{slog.LevelError, "EE"},
	}
	for _, tc := range cases {
		if got := levelTag(tc.level); got != tc.tag {
			t.Errorf("level %v tag got %s want %s", tc.level, got, tc.tag)
		}
	}
}
