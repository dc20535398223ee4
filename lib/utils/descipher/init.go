package descipher

import "sync"

// noBit marks entries of the inverted key permutations which have no
// output bit: parity bits for the key permutation and the 8 bits dropped
// by the compression permutation. It is outside of any valid bit index.
const noBit = 0xFF

// tables holds everything derived from the standard tables.
// Bit indexes in it are 0-based.
type tables struct {
	// merged S-boxes, each handles 12 bits of S-box input
	mSbox [4][4096]byte
	// S-box output placement combined with the P-box
	psbox [4][256]uint32

	initPerm, finalPerm [64]byte
	invKeyPerm          [64]byte
	invCompPerm         [56]byte

	// OR-masks, indexed by input byte position and byte value
	ipMaskL, ipMaskR           [8][256]uint32
	fpMaskL, fpMaskR           [8][256]uint32
	keyPermMaskL, keyPermMaskR [8][128]uint32
	compMaskL, compMaskR       [8][128]uint32
}

var (
	dt     tables
	dtOnce sync.Once
)

// InitTables builds the derived tables. Only the first call does any work,
// later and concurrent calls wait for it and return. EncryptBlock calls it
// by itself.
func InitTables() {
	dtOnce.Do(dt.build)
}

// spread sets output bit obit in l if it falls into the first width bits,
// in r otherwise.
func spread(l, r *uint32, obit, width byte, bits []uint32) {
	if obit < width {
		*l |= bits[obit]
	} else {
		*r |= bits[obit-width]
	}
}

func (t *tables) build() {
	// Invert the S-boxes, reordering the input bits so that row and
	// column bits come out of the expansion in natural order.
	var uSbox [8][64]byte
	for i := range sbox {
		for j := 0; j < 64; j++ {
			b := (j & 0x20) | ((j & 1) << 4) | ((j >> 1) & 0xf)
			uSbox[i][j] = sbox[i][b]
		}
	}

	for b := 0; b < 4; b++ {
		for i := 0; i < 64; i++ {
			for j := 0; j < 64; j++ {
				t.mSbox[b][(i<<6)|j] = (uSbox[2*b][i] << 4) | uSbox[2*b+1][j]
			}
		}
	}

	for i := range ip {
		x := ip[i] - 1
		t.finalPerm[i] = x
		t.initPerm[x] = byte(i)
		t.invKeyPerm[i] = noBit
	}
	for i := range t.invCompPerm {
		t.invCompPerm[i] = noBit
	}
	for i, x := range keyPerm {
		t.invKeyPerm[x-1] = byte(i)
	}
	for i, x := range compPerm {
		t.invCompPerm[x-1] = byte(i)
	}

	for k := 0; k < 8; k++ {
		for i := 0; i < 256; i++ {
			var il, ir, fl, fr uint32
			for j := 0; j < 8; j++ {
				if byte(i)&bits8[j] == 0 {
					continue
				}
				inbit := 8*k + j
				spread(&il, &ir, t.initPerm[inbit], 32, bits32[:])
				spread(&fl, &fr, t.finalPerm[inbit], 32, bits32[:])
			}
			t.ipMaskL[k][i], t.ipMaskR[k][i] = il, ir
			t.fpMaskL[k][i], t.fpMaskR[k][i] = fl, fr
		}

		// key tables take 7-bit values, the low (parity) bit of each
		// key byte is already shifted out
		for i := 0; i < 128; i++ {
			var kl, kr, cl, cr uint32
			for j := 0; j < 7; j++ {
				if byte(i)&bits8[j+1] == 0 {
					continue
				}
				if obit := t.invKeyPerm[8*k+j]; obit != noBit {
					spread(&kl, &kr, obit, 28, bits28)
				}
				if obit := t.invCompPerm[7*k+j]; obit != noBit {
					spread(&cl, &cr, obit, 24, bits24)
				}
			}
			t.keyPermMaskL[k][i], t.keyPermMaskR[k][i] = kl, kr
			t.compMaskL[k][i], t.compMaskR[k][i] = cl, cr
		}
	}

	// Invert the P-box and fold it into the placement of S-box output.
	var unPbox [32]byte
	for i, x := range pbox {
		unPbox[x-1] = byte(i)
	}
	for b := 0; b < 4; b++ {
		for i := 0; i < 256; i++ {
			var p uint32
			for j := 0; j < 8; j++ {
				if byte(i)&bits8[j] != 0 {
					p |= bits32[unPbox[8*b+j]]
				}
			}
			t.psbox[b][i] = p
		}
	}
}
