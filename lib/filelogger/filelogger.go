package filelogger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"golang.org/x/xerrors"

	"freesec/lib/logx"
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorOn
	ColorOff
)

// ParseColorMode accepts "auto", "on" and "off".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "on", "always":
		return ColorOn, nil
	case "off", "never":
		return ColorOff, nil
	}
	return 0, xerrors.Errorf("unknown color mode %q", s)
}

type levelStrings [logx.LevelCount]string

var levelstrings = [2]levelStrings{
	// uncolored
	{
		logx.DEBUG:    "   DEBUG",
		logx.INFO:     "    INFO",
		logx.NOTICE:   "  NOTICE",
		logx.WARN:     " WARNING",
		logx.ERROR:    "   ERROR",
		logx.CRITICAL: "CRITICAL",
	},
	// colored
	{
		logx.DEBUG:    "\033[37m   DEBUG\033[0m",
		logx.INFO:     "\033[34m    INFO\033[0m",
		logx.NOTICE:   "\033[32m  NOTICE\033[0m",
		logx.WARN:     "\033[33m WARNING\033[0m",
		logx.ERROR:    "\033[31m   ERROR\033[0m",
		logx.CRITICAL: "\033[35mCRITICAL\033[0m",
	},
}

var formatstrings = [2]string{
	" %s [%s] ",
	" %s [\033[36m%s\033[0m] ",
}

var nowTime = time.Now

var _ logx.LoggerX = (*FileLogger)(nil)

// FileLogger writes prefixed log lines. Messages spanning several lines
// get the prefix repeated on each of them.
type FileLogger struct {
	l sync.Mutex
	w splitter
	c int // index into levelstrings and formatstrings
	m logx.Level
}

// NewFileLogger logs to f. With ColorAuto colors are used only if f is a
// terminal.
func NewFileLogger(f *os.File, lvl logx.Level, c ColorMode) *FileLogger {
	fd := f.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if c == ColorOn || (c == ColorAuto && tty) {
		// translates escapes on windows consoles
		return newLogger(colorable.NewColorable(f), lvl, true)
	}
	return newLogger(f, lvl, false)
}

func newLogger(w io.Writer, lvl logx.Level, color bool) *FileLogger {
	l := &FileLogger{m: lvl}
	l.w.w = bufio.NewWriter(w)
	if color {
		l.c = 1
	}
	return l
}

func (l *FileLogger) Level() logx.Level {
	return l.m
}

func (l *FileLogger) prepareWrite(section string, lvl logx.Level) {
	t := nowTime().UTC()
	l.w.reset()
	fmt.Fprintf(&l.w.p, "%s", t.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&l.w.p, formatstrings[l.c], levelstrings[l.c][lvl], section)
}

func (l *FileLogger) LogPrintX(section string, lvl logx.Level, v ...interface{}) {
	if lvl < l.m {
		return
	}

	l.l.Lock()
	defer l.l.Unlock()

	l.prepareWrite(section, lvl)
	fmt.Fprint(&l.w, v...)
	l.w.finish()
}

func (l *FileLogger) LogPrintfX(section string, lvl logx.Level, fmts string, v ...interface{}) {
	if lvl < l.m {
		return
	}

	l.l.Lock()
	defer l.l.Unlock()

	l.prepareWrite(section, lvl)
	fmt.Fprintf(&l.w, fmts, v...)
	l.w.finish()
}
