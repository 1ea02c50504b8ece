package conv

// AddrHex renders a 7-bit I²C address as "0xNN", uppercase, no allocation
// beyond the result.
func AddrHex(addr uint16) string {
	const hexd = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexd[(addr>>4)&0xF], hexd[addr&0xF]})
}
