package trace

import "encoding/binary"

// ByteOrder identifies the endianness a trace is recorded in.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// String returns the byte-order keyword used in the emitted schema document.
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "be"
	}
	return "le"
}

// Reverse returns the opposite byte order.
func (o ByteOrder) Reverse() ByteOrder {
	if o == BigEndian {
		return LittleEndian
	}
	return BigEndian
}

// NativeByteOrder reports the byte order of the host running the daemon.
func NativeByteOrder() ByteOrder {
	if binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x3412 {
		return LittleEndian
	}
	return BigEndian
}

// ABI is the per-primitive-type alignment table of the traced processes.
// All alignments are in bits.
type ABI struct {
	Uint8Alignment  uint32
	Uint16Alignment uint32
	Uint32Alignment uint32
	Uint64Alignment uint32
	LongAlignment   uint32
	BitsPerLong     uint32
	ByteOrder       ByteOrder
}

// DefaultABI returns the alignment table of a typical 64-bit host with the
// native byte order. Registration normally overrides it with the values
// advertised by the instrumented process.
func DefaultABI() ABI {
	return ABI{
		Uint8Alignment:  8,
		Uint16Alignment: 16,
		Uint32Alignment: 32,
		Uint64Alignment: 64,
		LongAlignment:   64,
		BitsPerLong:     64,
		ByteOrder:       NativeByteOrder(),
	}
}
