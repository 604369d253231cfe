package persistence

import "encoding/binary"

// EncodeWords packs a fingerprint's sub-fingerprint words into the
// little-endian byte layout CatalogEntry.FingerprintData stores.
func EncodeWords(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// DecodeWords reverses EncodeWords.
func DecodeWords(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}
