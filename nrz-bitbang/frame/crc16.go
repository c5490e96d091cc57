package frame

// CRC16 returns the CRC-16/MCRF4XX checksum of data (the Klipper serial
// protocol checksum: reflected CCITT polynomial, 0xFFFF seed, no final xor).
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crc16Update(crc, b)
	}
	return crc
}

func crc16Update(crc uint16, b byte) uint16 {
	b ^= uint8(crc & 0xFF)
	b ^= b << 4
	b16 := uint16(b)
	return (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
}
