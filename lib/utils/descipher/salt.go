package descipher

// setSalt converts the low 24 bits of salt into the mask used by the round
// function. Salt bit i, counting from the LSB, becomes mask bit 23-i.
func (ctx *context) setSalt(salt uint32) {
	var saltbits uint32
	obit := uint32(0x800000)
	for saltbit := uint32(1); saltbit < 1<<24; saltbit <<= 1 {
		if salt&saltbit != 0 {
			saltbits |= obit
		}
		obit >>= 1
	}
	ctx.saltbits = saltbits
}
