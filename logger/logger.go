// Copyright 2019 The Nym Mixnet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
	Package logger provides per-module loggers for the provider and its clients.
	All of them share a single output and level and are backed by github.com/sirupsen/logrus.
*/

package logger

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	ColorRed     = 31
	ColorGreen   = 32
	ColorYellow  = 33
	ColorBlue    = 34
	ColorMagenta = 35
	ColorCyan    = 36
	ColorWhite   = 37

	timestampFormat = "2006-01-02 15:04:05.000"
)

type moduleFormatter struct {
	module   string
	coloured bool
}

func levelColor(level log.Level) int {
	switch level {
	case log.TraceLevel:
		return ColorCyan
	case log.DebugLevel:
		return ColorBlue
	case log.WarnLevel:
		return ColorYellow
	case log.ErrorLevel:
		return ColorRed
	case log.FatalLevel, log.PanicLevel:
		return ColorMagenta
	default:
		return ColorGreen
	}
}

func (f *moduleFormatter) Format(entry *log.Entry) ([]byte, error) {
	levelText := strings.ToUpper(entry.Level.String())[0:4]

	callerString := f.module
	if entry.HasCaller() {
		fullFuncName := entry.Caller.Function
		i := strings.LastIndex(fullFuncName, ".")
		callerString += "/" + fullFuncName[i+1:]
	}

	var fields strings.Builder
	for k, v := range entry.Data {
		fmt.Fprintf(&fields, " %s=%v", k, v)
	}

	timestamp := entry.Time.Format(timestampFormat)
	if !f.coloured {
		return []byte(fmt.Sprintf("[%s] %s ▶ %s - %s%s\n",
			timestamp,
			callerString,
			levelText,
			entry.Message,
			fields.String(),
		)), nil
	}

	return []byte(fmt.Sprintf("\x1b[%dm[%s]\x1b[0m\x1b[%dm %s ▶ %s \x1b[0m- %s%s\n",
		ColorWhite,
		timestamp,
		levelColor(entry.Level),
		callerString,
		levelText,
		entry.Message,
		fields.String(),
	)), nil
}

// Logger holds all necessary data to create module-specific loggers.
type Logger struct {
	logOut   io.Writer
	closer   io.Closer
	level    log.Level
	coloured bool
}

// GetLogger returns a per-module logger that writes to the backend.
func (l *Logger) GetLogger(module string) *log.Logger {
	baseLogger := log.New()
	baseLogger.Formatter = &moduleFormatter{module: module, coloured: l.coloured}
	baseLogger.Out = l.logOut
	baseLogger.Level = l.level
	baseLogger.ReportCaller = true

	return baseLogger
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New returns new instance of logger. If disable is set, everything is discarded,
// otherwise logs go to the file f or to stdout if f is empty.
func New(f string, level string, disable bool) (*Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := &Logger{level: lvl}
	switch {
	case disable:
		l.logOut = ioutil.Discard
	case f == "":
		l.logOut = os.Stdout
		l.coloured = true
	default:
		const fileMode = 0600

		flags := os.O_CREATE | os.O_APPEND | os.O_WRONLY
		file, err := os.OpenFile(f, flags, fileMode)
		if err != nil {
			return nil, fmt.Errorf("logger: failed to create log file: %w", err)
		}
		l.logOut = file
		l.closer = file
	}

	return l, nil
}

// NewDisabled returns a logger discarding everything. Mostly useful for tests.
func NewDisabled() *log.Logger {
	return (&Logger{logOut: ioutil.Discard, level: log.PanicLevel}).GetLogger("disabled")
}
