package descrypt

// crypt(3) flavour of base64
const ascii64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// asciiToBin maps a salt or rounds character to its 6-bit value.
// Characters outside of ascii64 map to 0, like libcrypt always did.
func asciiToBin(ch byte) uint32 {
	switch {
	case ch > 'z':
		return 0
	case ch >= 'a':
		return uint32(ch-'a') + 38
	case ch > 'Z':
		return 0
	case ch >= 'A':
		return uint32(ch-'A') + 12
	case ch > '9':
		return 0
	case ch >= '.':
		return uint32(ch - '.')
	default:
		return 0
	}
}

// decodeCount reads a 24-bit value stored least significant 6 bits first,
// as used by the extended setting.
func decodeCount(s []byte) (v uint32) {
	for i, c := range s {
		v |= asciiToBin(c) << (6 * uint(i))
	}
	return
}

func appendCount(out []byte, v uint32) []byte {
	for i := 0; i < 4; i++ {
		out = append(out, ascii64[v&0x3f])
		v >>= 6
	}
	return out
}

// appendBits appends the low 6*n bits of v, most significant first.
func appendBits(out []byte, v uint32, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		out = append(out, ascii64[(v>>(6*uint(i)))&0x3f])
	}
	return out
}

// appendHash encodes the 64 bits of a result block as 11 characters.
func appendHash(out []byte, r0, r1 uint32) []byte {
	out = appendBits(out, r0>>8, 4)
	out = appendBits(out, (r0<<16)|(r1>>16), 4)
	return appendBits(out, r1<<2, 3)
}
