package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopcount32(t *testing.T) {
	cases := map[uint32]int{
		0:          0,
		1:          1,
		0xFFFFFFFF: 32,
		0xF0F0F0F0: 16,
		0x80000000: 1,
	}
	for in, want := range cases {
		assert.Equal(t, want, Popcount32(in))
	}
}

func TestHamming32(t *testing.T) {
	assert.Equal(t, 0, Hamming32(0, 0))
	assert.Equal(t, 32, Hamming32(0, 0xFFFFFFFF))
	assert.Equal(t, 1, Hamming32(0b1010, 0b0010))
}

func TestHamming32Symmetric(t *testing.T) {
	a, b := uint32(0xDEADBEEF), uint32(0x12345678)
	assert.Equal(t, Hamming32(a, b), Hamming32(b, a))
}

func TestLowHash16(t *testing.T) {
	assert.Equal(t, uint16(0xABCD), LowHash16(0x0001ABCD))
}
