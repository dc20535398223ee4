package userpassnorm

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	errEmptyString        = errors.New("empty string is not valid")
	errInvalidUTF8        = errors.New("invalid UTF-8")
	errUserCharNotAllowed = errors.New("only printable US-ASCII characters except ':' are allowed in username")
	errPassCharNotAllowed = errors.New("control characters are forbidden in passwords")
)

// NormaliseUser checks that s can be used as a name in a user:hash file.
func NormaliseUser(s string) (_ string, err error) {
	if len(s) == 0 {
		err = errEmptyString
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x20 || s[i] >= 0x7F || s[i] == ':' {
			err = errUserCharNotAllowed
			return
		}
	}
	return s, nil
}

// NormalisePass brings s to NFC so that the same password typed on
// different systems hashes the same. NUL would cut the key short for
// crypt(3) so it's rejected along with other control characters.
// Spaces are fine.
func NormalisePass(s string) (_ string, err error) {
	if !utf8.ValidString(s) {
		err = errInvalidUTF8
		return
	}
	s = norm.NFC.String(s)
	for _, r := range s {
		if r < 0x20 || r == 0x7F || unicode.IsControl(r) ||
			(r != ' ' && !unicode.IsGraphic(r)) {

			err = errPassCharNotAllowed
			return
		}
	}
	if len(s) == 0 {
		err = errEmptyString
		return
	}
	return s, nil
}
