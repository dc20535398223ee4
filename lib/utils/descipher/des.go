// Package descipher implements the DES block encryption used by the
// traditional and extended crypt(3) password hashes.
//
// It is the FreeSec engine: all permutations are done with precomputed
// OR-mask tables, the expansion is salted, and the 16-round network can be
// repeated over the same block any number of times. Decryption is not
// provided.
package descipher

import (
	"errors"
	"runtime"
)

var (
	// ErrZeroCount is returned when asked to run the network zero times.
	ErrZeroCount = errors.New("descipher: repeat count is zero")
	// ErrDecryptUnsupported is returned for negative repeat counts,
	// which used to request decryption.
	ErrDecryptUnsupported = errors.New("descipher: decryption is not supported")
)

// context holds per-call key material.
type context struct {
	saltbits     uint32
	keysL, keysR [16]uint32
}

func (ctx *context) wipe() {
	*ctx = context{}
	runtime.KeepAlive(ctx)
}

// network runs the 16 rounds once. l and r are in IP order.
func (ctx *context) network(l, r uint32) (uint32, uint32) {
	var f, r48l, r48r uint32

	for i := 0; i < 16; i++ {
		// Expand R to 48 bits (simulate the E box).
		r48l = ((r & 0x00000001) << 23) |
			((r & 0xf8000000) >> 9) |
			((r & 0x1f800000) >> 11) |
			((r & 0x01f80000) >> 13) |
			((r & 0x001f8000) >> 15)

		r48r = ((r & 0x0001f800) << 7) |
			((r & 0x00001f80) << 5) |
			((r & 0x000001f8) << 3) |
			((r & 0x0000001f) << 1) |
			((r & 0x80000000) >> 31)

		// Salt swaps bits between the halves wherever they differ,
		// then mix in the subkey.
		f = (r48l ^ r48r) & ctx.saltbits
		r48l ^= f ^ ctx.keysL[i]
		r48r ^= f ^ ctx.keysR[i]

		// S-boxes shrink it back to 32 bits, P-box is done on the way.
		f = dt.psbox[0][dt.mSbox[0][r48l>>12]] |
			dt.psbox[1][dt.mSbox[1][r48l&0xfff]] |
			dt.psbox[2][dt.mSbox[2][r48r>>12]] |
			dt.psbox[3][dt.mSbox[3][r48r&0xfff]]

		f ^= l
		l = r
		r = f
	}

	// the last round is not swapped
	return f, l
}

// encrypt does IP, count runs of the network back to back, then FP.
func (ctx *context) encrypt(lIn, rIn uint32, count int) (lOut, rOut uint32) {
	l, r := permute(&dt.ipMaskL, &dt.ipMaskR, lIn, rIn)
	for ; count > 0; count-- {
		l, r = ctx.network(l, r)
	}
	return permute(&dt.fpMaskL, &dt.fpMaskR, l, r)
}

// run encrypts src into dst. dst is not written on error.
func (ctx *context) run(dst, src *[8]byte, count int) error {
	if count == 0 {
		return ErrZeroCount
	}
	if count < 0 {
		return ErrDecryptUnsupported
	}
	l, r := decodeBlock(src)
	l, r = ctx.encrypt(l, r, count)
	encodeBlock(dst, l, r)
	return nil
}

// EncryptBlock encrypts src with key into dst, using the low 24 bits of
// salt to perturb the expansion and running the 16 rounds count times
// without permuting in between. count must be positive.
// dst may be the same array as src or key.
func EncryptBlock(dst, key, src *[8]byte, salt uint32, count int) error {
	InitTables()

	var ctx context
	return ctx.encryptBlock(dst, key, src, salt, count)
}

// encryptBlock fills ctx from key and salt, runs it and leaves ctx zeroed
// whatever the outcome.
func (ctx *context) encryptBlock(dst, key, src *[8]byte, salt uint32, count int) error {
	defer ctx.wipe()

	ctx.setKey(key)
	ctx.setSalt(salt)
	return ctx.run(dst, src, count)
}
