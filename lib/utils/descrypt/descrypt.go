// Package descrypt implements the traditional and the BSDi extended
// crypt(3) DES password hashes on top of descipher.
package descrypt

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"io"
	"runtime"

	"golang.org/x/xerrors"

	"freesec/lib/utils/descipher"
)

const (
	// TraditionalLen is the length of a traditional hash: 2 salt
	// characters followed by 11 hash characters.
	TraditionalLen = 13
	// ExtendedLen is the length of an extended hash: "_", 4 rounds
	// characters, 4 salt characters, 11 hash characters.
	ExtendedLen = 20

	// traditional hashes always run the network this many times
	traditionalCount = 25

	// MaxRounds is the largest round count the extended setting can hold.
	MaxRounds = 1<<24 - 1
	// DefaultRounds is the round count BSDi used.
	DefaultRounds = 725
)

var (
	ErrBadSetting = errors.New("descrypt: malformed setting")
	ErrBadRounds  = errors.New("descrypt: invalid rounds")
)

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// loadKey puts the first 8 characters of key, each shifted up by one
// bit, into keybuf and returns the characters left over. Keys end at the
// first NUL like they do for C callers.
func loadKey(keybuf *[8]byte, key []byte) (rest []byte) {
	if i := bytes.IndexByte(key, 0); i >= 0 {
		key = key[:i]
	}
	for i := range keybuf {
		if i < len(key) {
			keybuf[i] = key[i] << 1
		} else {
			keybuf[i] = 0
		}
	}
	if len(key) > len(keybuf) {
		return key[len(keybuf):]
	}
	return nil
}

func encryptZero(keybuf *[8]byte, salt uint32, count int) (r0, r1 uint32, err error) {
	var block [8]byte
	err = descipher.EncryptBlock(&block, keybuf, &block, salt, count)
	if err != nil {
		return
	}
	r0 = binary.BigEndian.Uint32(block[:4])
	r1 = binary.BigEndian.Uint32(block[4:])
	return
}

// CryptTraditional computes the traditional crypt(3) hash of key with the
// given two salt characters and appends it to out.
// Only the first 8 characters of key matter.
func CryptTraditional(key []byte, salt [2]byte, out []byte) []byte {
	var keybuf [8]byte
	defer wipe(keybuf[:])

	loadKey(&keybuf, key)

	s := (asciiToBin(salt[1]) << 6) | asciiToBin(salt[0])

	// can't fail with a positive count
	r0, r1, _ := encryptZero(&keybuf, s, traditionalCount)

	out = append(out, salt[0], salt[1])
	return appendHash(out, r0, r1)
}

// CryptExtended computes the BSDi extended hash of key for setting, which
// has the form "_CCCCSSSS" with a 24-bit round count C and a 24-bit salt S,
// and appends it to out. All characters of key are used.
func CryptExtended(key []byte, setting [9]byte, out []byte) ([]byte, error) {
	if setting[0] != '_' {
		return out, xerrors.Errorf("setting %q lacks '_' prefix: %w", setting[:], ErrBadSetting)
	}
	count := decodeCount(setting[1:5])
	if count == 0 {
		return out, xerrors.Errorf("zero rounds in %q: %w", setting[:], ErrBadRounds)
	}
	salt := decodeCount(setting[5:9])

	var keybuf [8]byte
	defer wipe(keybuf[:])

	rest := loadKey(&keybuf, key)
	for len(rest) != 0 {
		// encrypt the key with itself and XOR in the next 8 characters
		err := descipher.EncryptBlock(&keybuf, &keybuf, &keybuf, 0, 1)
		if err != nil {
			return out, xerrors.Errorf("descrypt: folding key: %w", err)
		}
		for i := 0; i < len(keybuf) && len(rest) != 0; i++ {
			keybuf[i] ^= rest[0] << 1
			rest = rest[1:]
		}
	}

	r0, r1, err := encryptZero(&keybuf, salt, int(count))
	if err != nil {
		return out, xerrors.Errorf("descrypt: %w", err)
	}

	out = append(out, setting[:]...)
	return appendHash(out, r0, r1), nil
}

// Crypt hashes key according to setting. A setting starting with '_'
// selects the extended hash and needs 9 characters, anything else the
// traditional one and needs 2. Characters after the setting, like the
// hash part of a complete previous result, are ignored.
func Crypt(key []byte, setting string) (string, error) {
	if len(setting) != 0 && setting[0] == '_' {
		if len(setting) < 9 {
			return "", xerrors.Errorf("extended setting %q too short: %w", setting, ErrBadSetting)
		}
		var s [9]byte
		copy(s[:], setting)
		var buf [ExtendedLen]byte
		res, err := CryptExtended(key, s, buf[:0])
		if err != nil {
			return "", err
		}
		return string(res), nil
	}

	if len(setting) < 2 {
		return "", xerrors.Errorf("salt %q too short: %w", setting, ErrBadSetting)
	}
	var buf [TraditionalLen]byte
	return string(CryptTraditional(key, [2]byte{setting[0], setting[1]}, buf[:0])), nil
}

// Verify reports whether key hashes to hash.
func Verify(key []byte, hash string) bool {
	if len(hash) != TraditionalLen && len(hash) != ExtendedLen {
		return false
	}
	res, err := Crypt(key, hash)
	if err != nil || len(res) != len(hash) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(res), []byte(hash)) == 1
}

// NewSalt reads randomness from r and makes a traditional salt of it.
func NewSalt(r io.Reader) (salt [2]byte, err error) {
	var b [2]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		err = xerrors.Errorf("descrypt: reading salt: %w", err)
		return
	}
	salt[0] = ascii64[b[0]&0x3f]
	salt[1] = ascii64[b[1]&0x3f]
	return
}

// NewExtendedSetting makes an extended setting for rounds with a salt read
// from r. Odd round counts are preferable, even ones expose weak DES keys.
func NewExtendedSetting(r io.Reader, rounds uint32) (setting [9]byte, err error) {
	if rounds == 0 || rounds > MaxRounds {
		err = xerrors.Errorf("rounds %d not in 1..%d: %w", rounds, MaxRounds, ErrBadRounds)
		return
	}
	var b [3]byte
	if _, err = io.ReadFull(r, b[:]); err != nil {
		err = xerrors.Errorf("descrypt: reading salt: %w", err)
		return
	}
	salt := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16

	out := append(setting[:0], '_')
	out = appendCount(out, rounds)
	appendCount(out, salt)
	return
}
