package descipher

import (
	"encoding/hex"
	"testing"
)

func hexBlock(t testing.TB, s string) (b [8]byte) {
	x, err := hex.DecodeString(s)
	if err != nil || len(x) != 8 {
		t.Fatalf("bad test block %q", s)
	}
	copy(b[:], x)
	return
}

// key, plaintext, ciphertext
var desVectors = [...][3]string{
	{"0000000000000000", "0000000000000000", "8CA64DE9C1B123A7"},
	{"FFFFFFFFFFFFFFFF", "FFFFFFFFFFFFFFFF", "7359B2163E4EDC58"},
	{"3000000000000000", "1000000000000001", "958E6E627A05557B"},
	{"1111111111111111", "1111111111111111", "F40379AB9E0EC533"},
	{"0123456789ABCDEF", "1111111111111111", "17668DFC7292532D"},
	{"1111111111111111", "0123456789ABCDEF", "8A5AE1F81AB8F2DD"},
	{"FEDCBA9876543210", "0123456789ABCDEF", "ED39D950FA74BCC4"},
	{"7CA110454A1A6E57", "01A1D6D039776742", "690F5B0D9A26939B"},
	{"0131D9619DC1376E", "5CD54CA83DEF57DA", "7A389D10354BD271"},
	{"07A1133E4A0B2686", "0248D43806F67172", "868EBB51CAB4599A"},
	{"3849674C2602319E", "51454B582DDF440A", "7178876E01F19B2A"},
	{"04B915BA43FEB5B6", "42FD443059577FA2", "AF37FB421F8C4095"},
	{"0113B970FD34F2CE", "059B5E0851CF143A", "86A560F10EC6D85B"},
	{"0170F175468FB5E6", "0756D8E0774761D2", "0CD3DA020021DC09"},
	{"43297FAD38E373FE", "762514B829BF486A", "EA676B2CB7DB2B7A"},
	{"07A7137045DA2A16", "3BDD119049372802", "DFD64A815CAF1A0F"},
	{"04689104C2FD3B2F", "26955F6835AF609A", "5C513C9C4886C088"},
	{"37D06BB516CB7546", "164D5E404F275232", "0A2AEEAE3FF4AB77"},
	{"1F08260D1AC2465E", "6B056E18759F5CCA", "EF1BF03E5DFA575A"},
	{"584023641ABA6176", "004BD6EF09176062", "88BF0DB6D70DEE56"},
	{"025816164629B007", "480D39006EE762F2", "A1F9915541020B56"},
	{"49793EBC79B3258F", "437540C8698F3CFA", "6FBF1CAFCFFD0556"},
	{"4FB05E1515AB73A7", "072D43A077075292", "2F22E49BAB7CA1AC"},
	{"49E95D6D4CA229BF", "02FE55778117F12A", "5A6B612CC26CCE4A"},
	{"018310DC409B26D6", "1D9D5C5018F728C2", "5F4C038ED12B2E41"},
	{"1C587F1C13924FEF", "305532286D6F295A", "63FAC0D034D9F793"},
	{"0101010101010101", "0123456789ABCDEF", "617B3A0CE8F07100"},
	{"1F1F1F1F0E0E0E0E", "0123456789ABCDEF", "DB958605F8C8C606"},
	{"E0FEE0FEF1FEF1FE", "0123456789ABCDEF", "EDBFD1C66C29CCC7"},
	{"0000000000000000", "FFFFFFFFFFFFFFFF", "355550B2150E2451"},
	{"FFFFFFFFFFFFFFFF", "0000000000000000", "CAAAAF4DEAF1DBAE"},
	{"0123456789ABCDEF", "0000000000000000", "D5D44FF720683D0D"},
	{"FEDCBA9876543210", "FFFFFFFFFFFFFFFF", "2A2BB008DF97C2F2"},
}

func TestVectors(t *testing.T) {
	for i, v := range desVectors {
		key, in, exp := hexBlock(t, v[0]), hexBlock(t, v[1]), hexBlock(t, v[2])
		var out [8]byte
		if err := EncryptBlock(&out, &key, &in, 0, 1); err != nil {
			t.Fatalf("%d: unexpected error: %v", i, err)
		}
		if out != exp {
			t.Errorf("%d got %X expected %X; key=%s in=%s", i, out, exp, v[0], v[1])
		}
	}
}

// key 0123456789abcdef, block "Now is t"
func TestSaltedVectors(t *testing.T) {
	tests := [...]struct {
		salt  uint32
		count int
		exp   string
	}{
		{0, 1, "3fa40e8a984d4815"},
		{1, 1, "b2bf142eeb68a7f9"},
		{0x1000001, 1, "b2bf142eeb68a7f9"}, // only 24 bits count
		{0, 2, "86d38a03d51c1033"},
		{0x5a5a5a, 1, "4d1bd0d1a8cac8a6"},
		{0x5a5a5a, 3, "a2697807cb005e8a"},
		{0xabc, 25, "5dac7a7f7ecaf7e9"},
	}
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "4e6f772069732074")
	for i, tc := range tests {
		var out [8]byte
		if err := EncryptBlock(&out, &key, &in, tc.salt, tc.count); err != nil {
			t.Fatalf("%d: unexpected error: %v", i, err)
		}
		if exp := hexBlock(t, tc.exp); out != exp {
			t.Errorf("%d got %x expected %x", i, out, exp)
		}
	}
}

func TestSaltChangesOutput(t *testing.T) {
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "4e6f772069732074")
	var out0, out1 [8]byte
	if err := EncryptBlock(&out0, &key, &in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := EncryptBlock(&out1, &key, &in, 1, 1); err != nil {
		t.Fatal(err)
	}
	if out0 == out1 {
		t.Errorf("salt 0 and salt 1 both gave %x", out0)
	}
}

func TestCountChaining(t *testing.T) {
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "4e6f772069732074")
	const salt = 0x5a5a5a

	var out2 [8]byte
	if err := EncryptBlock(&out2, &key, &in, salt, 2); err != nil {
		t.Fatal(err)
	}

	// IP once, the network twice, FP once
	var ctx context
	ctx.setKey(&key)
	ctx.setSalt(salt)
	l, r := decodeBlock(&in)
	l, r = permute(&dt.ipMaskL, &dt.ipMaskR, l, r)
	l, r = ctx.network(l, r)
	l, r = ctx.network(l, r)
	l, r = permute(&dt.fpMaskL, &dt.fpMaskR, l, r)
	var manual [8]byte
	encodeBlock(&manual, l, r)
	if manual != out2 {
		t.Errorf("count 2 gave %x, manual chaining gave %x", out2, manual)
	}

	// a single network run is a different thing
	var out1 [8]byte
	if err := EncryptBlock(&out1, &key, &in, salt, 1); err != nil {
		t.Fatal(err)
	}
	if out1 == out2 {
		t.Errorf("count 1 and count 2 both gave %x", out1)
	}

	// FP followed by IP is the identity, so feeding output back in
	// lands on the same block
	var again [8]byte
	if err := EncryptBlock(&again, &key, &out1, salt, 1); err != nil {
		t.Fatal(err)
	}
	if again != out2 {
		t.Errorf("re-encrypting gave %x, count 2 gave %x", again, out2)
	}
}

func TestIPFPInverse(t *testing.T) {
	InitTables()
	for i, v := range desVectors {
		in := hexBlock(t, v[1])
		a, b := decodeBlock(&in)
		l, r := permute(&dt.ipMaskL, &dt.ipMaskR, a, b)
		x, y := permute(&dt.fpMaskL, &dt.fpMaskR, l, r)
		if x != a || y != b {
			t.Errorf("%d: FP(IP(%08x%08x)) = %08x%08x", i, a, b, x, y)
		}
	}
}

func TestBadCount(t *testing.T) {
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "4e6f772069732074")
	sentinel := [8]byte{0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef}
	tests := [...]struct {
		count int
		err   error
	}{
		{0, ErrZeroCount},
		{-1, ErrDecryptUnsupported},
		{-25, ErrDecryptUnsupported},
	}
	for _, tc := range tests {
		out := sentinel
		err := EncryptBlock(&out, &key, &in, 0, tc.count)
		if err != tc.err {
			t.Errorf("count %d: got error %v expected %v", tc.count, err, tc.err)
		}
		if out != sentinel {
			t.Errorf("count %d: output was modified to %x", tc.count, out)
		}
	}
}

func TestDeterministic(t *testing.T) {
	key := hexBlock(t, "7ca110454a1a6e57")
	in := hexBlock(t, "01a1d6d039776742")
	var first [8]byte
	if err := EncryptBlock(&first, &key, &in, 0x123456, 25); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		// interleave other keys and salts
		var junk [8]byte
		other := hexBlock(t, "fedcba9876543210")
		_ = EncryptBlock(&junk, &other, &in, uint32(i), 1+i%3)

		var out [8]byte
		if err := EncryptBlock(&out, &key, &in, 0x123456, 25); err != nil {
			t.Fatal(err)
		}
		if out != first {
			t.Fatalf("%d: got %x, first call gave %x", i, out, first)
		}
	}
}

func TestAliasing(t *testing.T) {
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "1111111111111111")
	exp := hexBlock(t, "17668dfc7292532d")

	b := in
	if err := EncryptBlock(&b, &key, &b, 0, 1); err != nil {
		t.Fatal(err)
	}
	if b != exp {
		t.Errorf("dst==src got %x expected %x", b, exp)
	}

	k := key
	if err := EncryptBlock(&k, &k, &in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if k != exp {
		t.Errorf("dst==key got %x expected %x", k, exp)
	}
}

func TestParityIgnored(t *testing.T) {
	in := hexBlock(t, "0123456789abcdef")
	k1 := hexBlock(t, "0101010101010101")
	k2 := hexBlock(t, "0000000000000000")
	var o1, o2 [8]byte
	if err := EncryptBlock(&o1, &k1, &in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := EncryptBlock(&o2, &k2, &in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if o1 != o2 {
		t.Errorf("parity bits changed output: %x vs %x", o1, o2)
	}
}

func TestExpandKey(t *testing.T) {
	tests := [...]struct {
		k7  [7]byte
		exp string
	}{
		{[7]byte{}, "0000000000000000"},
		{[7]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "fefefefefefefefe"},
		{[7]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd}, "0090d0ac784cae9a"},
	}
	for i, tc := range tests {
		if got, exp := ExpandKey(&tc.k7), hexBlock(t, tc.exp); got != exp {
			t.Errorf("%d got %x expected %x", i, got, exp)
		}
	}

	// 7 byte key of zeros against all ones block
	k7 := [7]byte{}
	key := ExpandKey(&k7)
	in := hexBlock(t, "FFFFFFFFFFFFFFFF")
	var out [8]byte
	if err := EncryptBlock(&out, &key, &in, 0, 1); err != nil {
		t.Fatal(err)
	}
	if exp := hexBlock(t, "355550B2150E2451"); out != exp {
		t.Errorf("got %X expected %X", out, exp)
	}
}

func TestWipe(t *testing.T) {
	InitTables()
	var ctx context
	key := hexBlock(t, "0123456789abcdef")
	ctx.setKey(&key)
	ctx.setSalt(0xffffff)
	if ctx == (context{}) {
		t.Fatal("context was not filled")
	}
	ctx.wipe()
	if ctx != (context{}) {
		t.Errorf("context not cleared: %+v", ctx)
	}
}

func TestWipeOnEveryPath(t *testing.T) {
	InitTables()
	key := hexBlock(t, "0123456789abcdef")
	in := hexBlock(t, "4e6f772069732074")
	for _, tc := range []struct {
		count int
		err   error
	}{
		{1, nil},
		{25, nil},
		{0, ErrZeroCount},
		{-1, ErrDecryptUnsupported},
	} {
		ctx := context{saltbits: 0xffffff}
		ctx.keysL[3] = 0xabcdef
		var out [8]byte
		if err := ctx.encryptBlock(&out, &key, &in, 0x5a5a5a, tc.count); err != tc.err {
			t.Errorf("count %d: got %v expected %v", tc.count, err, tc.err)
		}
		if ctx != (context{}) {
			t.Errorf("count %d: context not cleared: %+v", tc.count, ctx)
		}
	}
}

func BenchmarkEncryptBlock(b *testing.B) {
	key := hexBlock(b, "0123456789abcdef")
	in := hexBlock(b, "4e6f772069732074")
	var out [8]byte
	for i := 0; i < b.N; i++ {
		_ = EncryptBlock(&out, &key, &in, 0xabc, 1)
	}
}

func BenchmarkEncryptBlock25(b *testing.B) {
	key := hexBlock(b, "0123456789abcdef")
	var in, out [8]byte
	for i := 0; i < b.N; i++ {
		_ = EncryptBlock(&out, &key, &in, 0xabc, 25)
	}
}
