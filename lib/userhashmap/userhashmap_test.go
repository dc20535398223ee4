package userhashmap

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"

	"freesec/lib/logx"
)

const passwd = `# test users
root:PQl1.p7BcJRuM:0:0:root:/root:/bin/sh
ext:_J9..SDizh.vll5VED9g
guest::1000

bob:abFZSxKKdq5s6
`

func TestParse(t *testing.T) {
	m := NewUserHashMap()
	if err := m.Parse(strings.NewReader(passwd), logx.NopLogger{}); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"bob", "ext", "guest", "root"}, m.Users()); d != "" {
		t.Errorf("users mismatch (-want +got):\n%s", d)
	}

	tests := [...]struct {
		user, pass string
		ok         bool
	}{
		{"root", "test", true},
		{"root", "tesT", false},
		{"ext", "ab1234567", true},
		{"ext", "ab123456", false},
		{"guest", "anything", true},
		{"bob", "abc", true},
		{"bob", "abc\x00", false},
		{"nobody", "test", false},
		{"bad user", "test", false},
	}
	for _, tc := range tests {
		if ok := m.CheckUserPass(tc.user, tc.pass); ok != tc.ok {
			t.Errorf("%q/%q: got %v expected %v", tc.user, tc.pass, ok, tc.ok)
		}
	}
}

type countLogger struct {
	logx.NopLogger
	n int
}

func (l *countLogger) LogPrintf(lvl logx.Level, f string, v ...interface{}) {
	l.n++
}

func TestParseErrors(t *testing.T) {
	const in = "nocolon\nroot:PQl1.p7BcJRuM\nroot:xxtHrOGVa3182\nshort:abc\nok:abFZSxKKdq5s6\n"
	m := NewUserHashMap()
	l := &countLogger{}
	err := m.Parse(strings.NewReader(in), l)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("got %v, expected line 1 error", err)
	}
	if l.n != 3 {
		t.Errorf("logged %d lines, expected 3", l.n)
	}
	if m.Len() != 2 {
		t.Errorf("got %d users expected 2", m.Len())
	}

	m = NewUserHashMap()
	if err = m.Add("a", "abFZSxKKdq5s6"); err != nil {
		t.Fatal(err)
	}
	if err = m.Add("a", ""); !xerrors.Is(err, ErrDuplicateUser) {
		t.Errorf("got %v expected %v", err, ErrDuplicateUser)
	}
	for _, h := range []string{"abc", "_bFZSxKKdq5s6", "ab.............Zs6xx"} {
		if err = m.Add("b", h); !xerrors.Is(err, ErrBadHash) {
			t.Errorf("%q: got %v expected %v", h, err, ErrBadHash)
		}
	}
}

func TestParseEmptyHashWarns(t *testing.T) {
	m := NewUserHashMap()
	l := &countLogger{}
	err := m.Parse(strings.NewReader("guest::1000\nroot:PQl1.p7BcJRuM\n"), l)
	if err != nil {
		t.Fatal(err)
	}
	if l.n != 1 {
		t.Errorf("logged %d lines, expected 1", l.n)
	}
	if !m.CheckUserPass("guest", "whatever") {
		t.Error("guest without hash rejected")
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "userhashmap")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "passwd")
	if err = ioutil.WriteFile(fn, []byte(passwd), 0600); err != nil {
		t.Fatal(err)
	}
	m := NewUserHashMap()
	if err = m.Load(fn, logx.NopLogger{}); err != nil {
		t.Fatal(err)
	}
	if h, ok := m.HashByName("root"); !ok || h != "PQl1.p7BcJRuM" {
		t.Errorf("root: got %q, %v", h, ok)
	}

	err = NewUserHashMap().Load(filepath.Join(dir, "nope"), logx.NopLogger{})
	if !xerrors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v expected not exist error", err)
	}
}
