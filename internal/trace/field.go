// Package trace defines the domain types shared by the session registry and
// the schema generator: field descriptors as received from instrumented
// processes, the trace ABI, enumeration entries, and the collaborator
// snapshots (clock attributes, session identity) consumed during statedump.
package trace

// StringEncoding is the character encoding advertised for string-like types.
type StringEncoding uint8

const (
	EncodingNone StringEncoding = iota
	EncodingUTF8
	EncodingASCII
)

// String returns the encoding keyword used in the emitted schema document.
func (e StringEncoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF8"
	case EncodingASCII:
		return "ASCII"
	default:
		return "none"
	}
}

// FieldType is the sum type over every descriptor shape an instrumented
// process can declare. Split ("nestable") cases do not own their element:
// the element occupies the descriptor slot immediately following the field's
// own slot in the flat list.
type FieldType interface {
	fieldType()
}

// IntegerType describes a fixed-size integer. Size and Alignment are in bits.
type IntegerType struct {
	Size             uint32
	Alignment        uint32
	Signed           bool
	Encoding         StringEncoding
	Base             uint32
	ReverseByteOrder bool
}

// FloatType describes an IEEE 754 floating point number. Alignment is in bits.
type FloatType struct {
	ExpDig           uint32
	MantDig          uint32
	Alignment        uint32
	ReverseByteOrder bool
}

// StringType describes a null-terminated string.
type StringType struct {
	Encoding StringEncoding
}

// StructType describes an aggregate. Only empty aggregates are expressible in
// the output format; a non-zero NrFields is rejected during statedump.
type StructType struct {
	NrFields uint32
}

// ArrayType is the inline array encoding: the integer element type is
// embedded in the descriptor itself.
type ArrayType struct {
	Elem   IntegerType
	Length uint32
}

// ArrayNestableType is the split array encoding: the element type occupies
// the next descriptor slot. Alignment is in bits; zero means unaligned.
type ArrayNestableType struct {
	Length    uint32
	Alignment uint32
}

// SequenceType is the inline sequence encoding. The length is recorded in a
// hidden field synthesized from the sequence's own name.
type SequenceType struct {
	Elem       IntegerType
	LengthType IntegerType
}

// SequenceNestableType is the split sequence encoding: the element occupies
// the next slot and the length is carried by a separately declared field.
type SequenceNestableType struct {
	LengthName string
	Alignment  uint32
}

// EnumType is the inline enumeration encoding, carrying its integer container.
// Name and ID reference an enumeration registered with the session.
type EnumType struct {
	Name      string
	ID        uint64
	Container IntegerType
}

// EnumNestableType is the split enumeration encoding: the integer container
// occupies the next descriptor slot.
type EnumNestableType struct {
	Name string
	ID   uint64
}

// VariantType is the inline tagged-union encoding. The NrChoices descriptors
// following this field's slot are the union's choices.
type VariantType struct {
	NrChoices uint32
	TagName   string
}

// VariantNestableType is the split tagged-union encoding, which additionally
// carries an alignment constraint. Alignment is in bits.
type VariantNestableType struct {
	NrChoices uint32
	TagName   string
	Alignment uint32
}

func (IntegerType) fieldType()          {}
func (FloatType) fieldType()            {}
func (StringType) fieldType()           {}
func (StructType) fieldType()           {}
func (ArrayType) fieldType()            {}
func (ArrayNestableType) fieldType()    {}
func (SequenceType) fieldType()         {}
func (SequenceNestableType) fieldType() {}
func (EnumType) fieldType()             {}
func (EnumNestableType) fieldType()     {}
func (VariantType) fieldType()          {}
func (VariantNestableType) fieldType()  {}

// Field is one slot of the flat, cursor-indexed descriptor list attached to
// an event payload or a channel context.
type Field struct {
	Name string
	Type FieldType
}

// EnumValue is one bound of an enumeration entry. Entries may mix signedness
// independently, so the signedness travels with each bound.
type EnumValue struct {
	Value  uint64
	Signed bool
}

// EnumEntry maps a label to a single value or an inclusive range. Auto
// entries let the reader assign the next implicit value.
type EnumEntry struct {
	Label string
	Start EnumValue
	End   EnumValue
	Auto  bool
}

// EntriesEqual reports whether two entry lists are structurally identical.
// Registration uses it to fold duplicate enumerations onto one id.
func EntriesEqual(a, b []EnumEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
