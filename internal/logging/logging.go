/*
 *
 * Copyright 2026 LilPowerMan authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package logging writes structured logs to dated, counter-suffixed files,
// keeping only the most recent ones.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const (
	// maxLogFiles bounds how many log files survive a new run.
	maxLogFiles = 10

	filePrefix  = "LilPowerMan"
	filePattern = filePrefix + "????????_???.log"
)

// Setup creates a fresh log file under dir, prunes old ones down to the cap,
// and installs a slog text handler writing to it as the default logger. The
// returned closer owns the file.
func Setup(dir string, level slog.Level) (*slog.Logger, io.Closer, error) {
	file, err := newLogFile(dir, time.Now())
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, file, nil
}

// newLogFile picks the next free dated filename, deleting the oldest logs so
// that at most maxLogFiles remain once the new file is created.
func newLogFile(dir string, now time.Time) (*os.File, error) {
	existing, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate log files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(existing))) // newest first

	deleted := 0
	for _, old := range trailing(existing, maxLogFiles-1) {
		if err := os.Remove(old); err != nil {
			slog.Warn("failed to delete old log file", "file", old, "err", err)
		} else {
			deleted++
		}
	}
	if deleted > 0 {
		slog.Info("deleted old log files", "count", deleted)
	}

	prefix := fmt.Sprintf("%s%s_", filePrefix, now.Format("20060102"))
	counter := nextCounter(existing, prefix)
	name := fmt.Sprintf("%s%03d.log", prefix, counter)
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", name, err)
	}
	return file, nil
}

// nextCounter continues today's filename counter from the newest surviving
// log, starting over when a day has no logs yet or the counter would wrap.
func nextCounter(existing []string, prefix string) int {
	for _, path := range existing {
		name := filepath.Base(path)
		if len(name) < len(prefix)+3 || name[:len(prefix)] != prefix {
			continue
		}
		i, err := strconv.Atoi(name[len(prefix) : len(prefix)+3])
		if err != nil {
			continue
		}
		if i >= 999 {
			slog.Warn("log filename counter overflow, resetting to zero")
			return 0
		}
		return i + 1
	}
	return 0
}

// trailing returns the elements of s beyond the first n.
func trailing(s []string, n int) []string {
	if len(s) <= n {
		return nil
	}
	return s[n:]
}
