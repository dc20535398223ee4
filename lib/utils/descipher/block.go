package descipher

import "encoding/binary"

// decodeBlock splits b into two big-endian words.
func decodeBlock(b *[8]byte) (l, r uint32) {
	return binary.BigEndian.Uint32(b[:4]), binary.BigEndian.Uint32(b[4:])
}

func encodeBlock(b *[8]byte, l, r uint32) {
	binary.BigEndian.PutUint32(b[:4], l)
	binary.BigEndian.PutUint32(b[4:], r)
}

// permute applies a 64-bit permutation given as OR-mask tables to the
// block (a, b), one lookup per input byte.
func permute(ml, mr *[8][256]uint32, a, b uint32) (l, r uint32) {
	for k := uint(0); k < 4; k++ {
		s := 24 - 8*k
		x, y := (a>>s)&0xff, (b>>s)&0xff
		l |= ml[k][x] | ml[k+4][y]
		r |= mr[k][x] | mr[k+4][y]
	}
	return
}
