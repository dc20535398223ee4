package descipher

// setKey derives the 16 encryption subkeys from key.
// The low bit of every key byte is parity and is ignored.
func (ctx *context) setKey(key *[8]byte) {
	raw0, raw1 := decodeBlock(key)

	// Key permutation, splitting into two 28-bit halves.
	var k0, k1 uint32
	for k := uint(0); k < 4; k++ {
		s := 25 - 8*k
		x, y := (raw0>>s)&0x7f, (raw1>>s)&0x7f
		k0 |= dt.keyPermMaskL[k][x] | dt.keyPermMaskL[k+4][y]
		k1 |= dt.keyPermMaskR[k][x] | dt.keyPermMaskR[k+4][y]
	}

	// Rotate halves and do the compression permutation. Rotations
	// accumulate over rounds. Bits above 28 left over by the rotation
	// are never looked at.
	shifts := uint(0)
	for round := range ctx.keysL {
		shifts += uint(keyShifts[round])

		t0 := (k0 << shifts) | (k0 >> (28 - shifts))
		t1 := (k1 << shifts) | (k1 >> (28 - shifts))

		var kl, kr uint32
		for k := uint(0); k < 4; k++ {
			s := 21 - 7*k
			x, y := (t0>>s)&0x7f, (t1>>s)&0x7f
			kl |= dt.compMaskL[k][x] | dt.compMaskL[k+4][y]
			kr |= dt.compMaskR[k][x] | dt.compMaskR[k+4][y]
		}
		ctx.keysL[round] = kl
		ctx.keysR[round] = kr
	}
}

// ExpandKey spreads a 56-bit key over 8 bytes, 7 bits per byte with the
// parity bit cleared, so that it can be passed to EncryptBlock.
func ExpandKey(k7 *[7]byte) (k8 [8]byte) {
	var x uint64
	for _, b := range k7 {
		x = x<<8 | uint64(b)
	}
	for i := range k8 {
		k8[i] = byte(x>>(49-7*uint(i))) << 1
	}
	return
}
