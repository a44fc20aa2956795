package util

import (
	"github.com/pkg/errors"
)

// ByteWriter is a bounded io.Writer over a caller-owned byte slice, used when staging
// data into mapped memory that must never be overrun.
//
type ByteWriter struct {
	buffer []byte
	pos    int
	len    int
}

func NewByteWriter(buffer []byte) *ByteWriter {
	return &ByteWriter{buffer: buffer, pos: 0, len: len(buffer)}
}

func (self *ByteWriter) Write(p []byte) (n int, err error) {
	if self.pos+len(p) > self.len {
		return 0, errors.Errorf("overrun [%d + %d > %d]", self.pos, len(p), self.len)
	}
	n = copy(self.buffer[self.pos:self.len], p)
	self.pos += n
	if n != len(p) {
		return 0, errors.Errorf("short [%d != %d]", n, len(p))
	}
	return n, nil
}

func (self *ByteWriter) Len() int {
	return self.pos
}
