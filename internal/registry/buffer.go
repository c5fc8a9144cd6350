package registry

import (
	"math"
	"math/bits"

	"github.com/weft-io/weft/internal/trace"
)

// maxDocumentSize is the largest metadata document the wire format can
// describe: the top bit of its 31-bit length field is reserved.
const maxDocumentSize = math.MaxUint32 >> 1

// Buffer is the append-only backing store of one session's schema document.
// It grows by reservation and performs no internal locking: the session's
// exclusive dump section serializes every writer.
type Buffer struct {
	data []byte
	len  int

	// hardCap caps the total allocation in bytes. Zero means uncapped.
	hardCap int
}

// Reserve grows the buffer by n bytes and returns the offset at which the
// caller may write them. Newly exposed bytes are zero-filled. Growth picks
// max(next power of two >= new total, twice the old capacity).
func (b *Buffer) Reserve(n int) (int, error) {
	const op = "buffer reserve"

	newLen := b.len + n
	if newLen > maxDocumentSize {
		return 0, trace.Errorf(trace.KindFormatLimit, op,
			"document would exceed %d bytes", maxDocumentSize)
	}
	if newLen > len(b.data) {
		newAlloc := nextPowerOfTwo(newLen)
		if doubled := len(b.data) << 1; doubled > newAlloc {
			newAlloc = doubled
		}
		if newAlloc > maxDocumentSize {
			newAlloc = maxDocumentSize
		}
		if b.hardCap != 0 && newAlloc > b.hardCap {
			if newLen > b.hardCap {
				return 0, trace.Errorf(trace.KindOutOfMemory, op,
					"document needs %d bytes, cap is %d", newLen, b.hardCap)
			}
			newAlloc = b.hardCap
		}
		grown := make([]byte, newAlloc)
		copy(grown, b.data[:b.len])
		b.data = grown
	}
	offset := b.len
	b.len = newLen
	return offset, nil
}

// Bytes returns the document written so far. The slice aliases the backing
// store and is only stable while the dump section is held.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.len]
}

// Len returns the write cursor.
func (b *Buffer) Len() int {
	return b.len
}

// Cap returns the current allocation length.
func (b *Buffer) Cap() int {
	return len(b.data)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
