// Copyright Project Contour Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import "github.com/sirupsen/logrus"

// logrusLogger adapts a logrus.FieldLogger to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
	level int
}

// NewLogrus wraps a logrus logger as a Logger.
func NewLogrus(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	if l.level <= 1 {
		l.entry.Infof(format, args...)
	} else {
		l.entry.Debugf(format, args...)
	}
}

func (l *logrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) V(level int) InfoLogger {
	return &logrusLogger{entry: l.entry, level: level}
}

func (l *logrusLogger) WithPrefix(prefix string) Logger {
	return &logrusLogger{entry: l.entry.WithField("context", prefix), level: l.level}
}

// WithError attaches err to the log entry under the conventional
// "error" field, matching the rest of the codebase's use of logrus.
func WithError(l Logger, err error) Logger {
	ll, ok := l.(*logrusLogger)
	if !ok {
		return l
	}
	return &logrusLogger{entry: ll.entry.WithError(err), level: ll.level}
}
