package wire

import "github.com/goblimey/go-crc24q/crc24q"

// CRC24Q computes the CRC-24Q checksum over b starting from the zero
// register, matching RTCM3's convention. Delegates to the full 256-entry
// Qualcomm polynomial table rather than carrying a transcribed copy.
func CRC24Q(b []byte) uint32 {
	return crc24q.Hash(b)
}

// CRC24QBytes splits a CRC-24Q checksum into the three big-endian bytes
// RTCM3 frames carry after the payload.
func CRC24QBytes(crc uint32) (hi, mid, lo byte) {
	return crc24q.HiByte(crc), crc24q.MiByte(crc), crc24q.LoByte(crc)
}
