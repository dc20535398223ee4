package logx

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	NOTICE
	WARN
	ERROR
	CRITICAL
	LevelCount
)

var levelNames = [LevelCount]string{
	DEBUG:    "debug",
	INFO:     "info",
	NOTICE:   "notice",
	WARN:     "warn",
	ERROR:    "error",
	CRITICAL: "critical",
}

func (l Level) String() string {
	if l >= 0 && l < LevelCount {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts level names as printed by Level.String, in any case.
func ParseLevel(s string) (Level, error) {
	ls := strings.ToLower(s)
	if ls == "warning" {
		return WARN, nil
	}
	for i, n := range levelNames {
		if n == ls {
			return Level(i), nil
		}
	}
	return 0, xerrors.Errorf("unknown log level %q", s)
}

// LoggerX is a log sink shared by many sections.
type LoggerX interface {
	Level() Level
	LogPrintX(section string, lvl Level, v ...interface{})
	LogPrintfX(section string, lvl Level, fmt string, v ...interface{})
}

// Logger is bound to a single section.
type Logger interface {
	Level() Level
	LogPrint(lvl Level, v ...interface{})
	LogPrintf(lvl Level, fmt string, v ...interface{})
}

var _ Logger = LogToX{}

type LogToX struct {
	section string
	logx    LoggerX
}

func (l LogToX) Level() Level {
	return l.logx.Level()
}
func (l LogToX) LogPrint(lvl Level, v ...interface{}) {
	l.logx.LogPrintX(l.section, lvl, v...)
}
func (l LogToX) LogPrintf(lvl Level, fmt string, v ...interface{}) {
	l.logx.LogPrintfX(l.section, lvl, fmt, v...)
}
func NewLogToX(logx LoggerX, section string) LogToX {
	return LogToX{section: section, logx: logx}
}

var _ Logger = NopLogger{}

// NopLogger drops everything.
type NopLogger struct{}

func (NopLogger) Level() Level                            { return LevelCount }
func (NopLogger) LogPrint(Level, ...interface{})          {}
func (NopLogger) LogPrintf(Level, string, ...interface{}) {}
