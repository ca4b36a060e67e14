// Lectern: A library and CLI for extracting novel catalogs and chapter indexes.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Service implements the Logger interface, writing to a log file and
// optionally mirroring to a console writer.
type Service struct {
	level   Level
	logFile string
	file    *os.File
	console io.Writer
	mirror  bool
	logger  *log.Logger
	mu      sync.Mutex
	pid     int
}

// NewService creates a new logger service writing to logFile. An empty
// path or an unwritable file discards output until console mirroring is on.
func NewService(logFile string) *Service {
	s := &Service{
		level:   LevelInfo,
		logFile: logFile,
		console: os.Stderr,
		pid:     os.Getpid(),
	}

	s.updateOutputWriters()
	return s
}

// NewWriterService creates a logger that writes to w only
func NewWriterService(w io.Writer) *Service {
	s := &Service{
		level:   LevelInfo,
		console: w,
		mirror:  true,
		pid:     os.Getpid(),
	}

	s.updateOutputWriters()
	return s
}

// updateOutputWriters configures the output writers based on current settings
func (s *Service) updateOutputWriters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logFile != "" && s.file == nil {
		if err := os.MkdirAll(filepath.Dir(s.logFile), 0755); err == nil {
			if file, err := os.OpenFile(s.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
				s.file = file
			}
		}
	}

	var writers []io.Writer
	if s.file != nil {
		writers = append(writers, s.file)
	}
	if s.mirror && s.console != nil {
		writers = append(writers, s.console)
	}

	var output = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		output = writers[0]
	default:
		output = io.MultiWriter(writers...)
	}

	// formatting is done in log(), so no flags here
	s.logger = log.New(output, "", 0)
}

// SetConsoleOutput mirrors log lines to stderr when enabled
func (s *Service) SetConsoleOutput(enabled bool) {
	s.mu.Lock()
	s.mirror = enabled
	s.mu.Unlock()

	s.updateOutputWriters()
}

// SetLevel sets the minimum log level
func (s *Service) SetLevel(level Level) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

// Close closes the log file if open
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.logger = log.New(io.Discard, "", 0)
		return err
	}
	return nil
}

// Debug logs a debug message
func (s *Service) Debug(format string, args ...interface{}) {
	s.log(LevelDebug, format, args...)
}

// Info logs an info message
func (s *Service) Info(format string, args ...interface{}) {
	s.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (s *Service) Warn(format string, args ...interface{}) {
	s.log(LevelWarn, format, args...)
}

// Error logs an error message
func (s *Service) Error(format string, args ...interface{}) {
	s.log(LevelError, format, args...)
}

func (s *Service) log(level Level, format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	fileInfo := "unknown:0"
	if ok {
		fileInfo = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	now := time.Now()
	timestamp := fmt.Sprintf("%s,%03d", now.Format("2006-01-02 15:04:05"), now.Nanosecond()/1000000)

	// pad file info to a stable column
	if len(fileInfo) < 23 {
		fileInfo += strings.Repeat(" ", 23-len(fileInfo))
	}

	// timestamp [pid] LEVEL - file:line - message
	s.logger.Printf("%s [%d] %-5s - %s - %s",
		timestamp, s.pid, level.String(), fileInfo, fmt.Sprintf(format, args...))
}

// LogFile returns the path to the log file
func (s *Service) LogFile() string {
	return s.logFile
}
