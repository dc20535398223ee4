// Package userhashmap keeps crypt(3) DES hashes of users, as found in
// old-style passwd and htpasswd files.
package userhashmap

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"freesec/lib/logx"
	"freesec/lib/utils/descrypt"
	upn "freesec/lib/utils/text/userpassnorm"
)

var (
	ErrDuplicateUser = xerrors.New("duplicate username")
	ErrBadHash       = xerrors.New("not a DES crypt hash")
)

type UserHashMap struct {
	m map[string]string
}

func NewUserHashMap() UserHashMap {
	return UserHashMap{m: make(map[string]string)}
}

func validHash(h string) bool {
	switch len(h) {
	case descrypt.TraditionalLen:
		return h[0] != '_'
	case descrypt.ExtendedLen:
		return h[0] == '_'
	}
	return false
}

// Add adds user with hash, which must be a traditional or extended hash.
// Empty hash means no password is needed.
func (m UserHashMap) Add(user, hash string) (err error) {
	user, err = upn.NormaliseUser(user)
	if err != nil {
		return
	}
	if hash != "" && !validHash(hash) {
		return xerrors.Errorf("user %q: %w", user, ErrBadHash)
	}
	if _, ex := m.m[user]; ex {
		return xerrors.Errorf("user %q: %w", user, ErrDuplicateUser)
	}
	m.m[user] = hash
	return
}

// HashByName returns the hash of user and whether user exists.
func (m UserHashMap) HashByName(user string) (string, bool) {
	user, err := upn.NormaliseUser(user)
	if err != nil {
		return "", false
	}
	h, ok := m.m[user]
	return h, ok
}

// CheckUserPass reports whether pass is the password of user.
func (m UserHashMap) CheckUserPass(user, pass string) bool {
	h, ok := m.HashByName(user)
	if !ok {
		return false
	}
	if h == "" {
		return true
	}
	pass, err := upn.NormalisePass(pass)
	if err != nil {
		return false
	}
	return descrypt.Verify([]byte(pass), h)
}

// Users returns all user names, sorted.
func (m UserHashMap) Users() []string {
	users := make([]string, 0, len(m.m))
	for u := range m.m {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func (m UserHashMap) Len() int {
	return len(m.m)
}

// Parse reads "user:hash[:...]" lines from r. Fields after the hash, as
// in passwd files, are ignored. Empty lines and lines starting with '#'
// are skipped. Lines which can't be used are logged and skipped, the
// first error is returned after reading everything. Users without a
// hash are logged too.
func (m UserHashMap) Parse(r io.Reader, l logx.Logger) (err error) {
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.SplitN(line, ":", 3)
		var e error
		if len(fields) < 2 {
			e = xerrors.Errorf("line %d: no ':' separator", lineno)
		} else if e = m.Add(fields[0], fields[1]); e != nil {
			e = xerrors.Errorf("line %d: %w", lineno, e)
		} else if fields[1] == "" {
			l.LogPrintf(logx.WARN,
				"line %d: user %q has no password, any password is accepted",
				lineno, fields[0])
		}
		if e != nil {
			l.LogPrintf(logx.WARN, "skipping: %v", e)
			if err == nil {
				err = e
			}
		}
	}
	if e := sc.Err(); e != nil {
		return xerrors.Errorf("read error: %w", e)
	}
	return
}

// Load parses the file at path.
func (m UserHashMap) Load(path string, l logx.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return xerrors.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	err = m.Parse(f, l)
	if err != nil {
		return xerrors.Errorf("%q: %w", path, err)
	}
	l.LogPrintf(logx.DEBUG, "loaded %d users from %q", m.Len(), path)
	return nil
}
