package sim

import (
	"bytes"
	"crypto/sha512"
	"math/rand"

	"github.com/gfxkit/staging/util"
	"github.com/pkg/errors"
)

const hashSzLen = 2
const sha512Sz = 64
const headerSz = hashSzLen + sha512Sz

// encodeFrame fills frame with a random payload and prefixes a sha512 of the payload,
// so the consumer can prove the staged bytes survived the producer's buffer swaps.
func encodeFrame(frame []byte) error {
	if len(frame) < headerSz+1 {
		return errors.Errorf("frame too small [%d, at least %d required]", len(frame), headerSz+1)
	}
	for i := headerSz; i < len(frame); i++ {
		frame[i] = byte(rand.Intn(255))
	}
	hash := sha512.Sum512(frame[headerSz:])
	copy(frame[hashSzLen:], hash[:])
	util.WriteUint16(frame, sha512Sz)
	return nil
}

func verifyFrame(frame []byte) error {
	if len(frame) < headerSz+1 {
		return errors.Errorf("frame too small [%d, at least %d required]", len(frame), headerSz+1)
	}
	hashSz := util.ReadUint16(frame[:hashSzLen])
	if int(hashSz) != sha512Sz {
		return errors.Errorf("unexpected hash size [%d]", hashSz)
	}
	hash := sha512.Sum512(frame[headerSz:])
	if !bytes.Equal(hash[:], frame[hashSzLen:headerSz]) {
		return errors.New("hash mismatch")
	}
	return nil
}
