// Package legacytrip makes the old imageboard style tripcodes which are
// a traditional crypt(3) hash of Shift_JIS encoded input.
package legacytrip

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"

	"freesec/lib/utils/descrypt"
)

// TripLen is the length of a tripcode.
const TripLen = 10

func encodeSJIS(src, dst []byte) ([]byte, error) {
	enc := japanese.ShiftJIS.NewEncoder()
	for {
		n, _, err := enc.Transform(dst, src, true)
		if err == transform.ErrShortDst {
			dst = make([]byte, 2*len(dst))
			enc.Reset()
			continue
		}
		if err != nil {
			return nil, err
		}
		return dst[:n], nil
	}
}

// replace characters of buf found in old with ones at the same position
// in rep. len(old) == len(rep).
func replaceChars(buf []byte, old, rep string) {
	for i, c := range buf {
		for j := 0; j < len(old); j++ {
			if c == old[j] {
				buf[i] = rep[j]
				break
			}
		}
	}
}

// makeSalt takes the 2nd and 3rd bytes of the input, padded with "H..",
// and forces them into the salt alphabet.
func makeSalt(trip []byte) (salt [2]byte) {
	padded := append(append(make([]byte, 0, len(trip)+3), trip...), "H.."...)
	copy(salt[:], padded[1:3])
	for i, c := range salt {
		if c < '.' || c > 'z' {
			salt[i] = '.'
		}
	}
	replaceChars(salt[:], ":;<=>?@[\\]^_`", "ABCDEFGabcdef")
	return
}

// MakeLegacyTrip returns the tripcode for src, without the leading '!'.
func MakeLegacyTrip(src string) (string, error) {
	var sbuf [16]byte
	trip, err := encodeSJIS([]byte(src), sbuf[:])
	if err != nil {
		return "", xerrors.Errorf("legacytrip: Shift_JIS encoding failed: %w", err)
	}

	var buf [descrypt.TraditionalLen]byte
	res := descrypt.CryptTraditional(trip, makeSalt(trip), buf[:0])
	// 64^10 possible trips
	return string(res[len(res)-TripLen:]), nil
}
