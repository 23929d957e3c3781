// Package hasher derives content-addressed keys for the render cache.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen (0 or >= 16 keeps all 16 chars).
func ContentHash(data []byte, hexLen int) string {
	return truncate(sum64Hex(xxhash.Sum64(data)), hexLen)
}

// Key hashes file content together with the parameters that shape its
// rendering, so identical bytes rendered differently get distinct keys.
func Key(data []byte, params ...string) string {
	d := xxhash.New()
	d.Write(data)
	for _, p := range params {
		d.Write([]byte{0})
		d.WriteString(p)
	}
	return sum64Hex(d.Sum64())
}

// Params joins values into a single parameter string for Key.
func Params(values ...string) string {
	return strings.Join(values, "|")
}

func sum64Hex(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])
}

func truncate(full string, hexLen int) string {
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
