package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteUint16(t *testing.T) {
	valueOut := uint16(math.MaxUint16)
	buf := make([]byte, 2)
	WriteUint16(buf, valueOut)
	valueIn := ReadUint16(buf)
	assert.Equal(t, valueOut, valueIn)

	valueOut = 16
	buf = make([]byte, 2)
	WriteUint16(buf, valueOut)
	valueIn = ReadUint16(buf)
	assert.Equal(t, valueOut, valueIn)
}
