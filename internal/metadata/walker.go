package metadata

import (
	"fmt"

	"github.com/weft-io/weft/internal/trace"
)

// integerClause renders an integer type expression. byteOrder carries the
// optional reverse-byte-order clause, empty for native-order integers.
func integerClause(t trace.IntegerType, byteOrder string) string {
	return fmt.Sprintf("integer { size = %d; align = %d; signed = %d; encoding = %s; base = %d;%s }",
		t.Size, t.Alignment, btoi(t.Signed), t.Encoding, t.Base, byteOrder)
}

func (d *Dumper) integerByteOrder(t trace.IntegerType) string {
	if t.ReverseByteOrder {
		return d.reverseByteOrderClause()
	}
	return ""
}

// dumpFields walks a whole descriptor list, one top-level field at a time.
func (d *Dumper) dumpFields(fields []trace.Field, nesting int) error {
	for iter := 0; iter < len(fields); {
		if err := d.dumpField(fields, &iter, nesting); err != nil {
			return err
		}
	}
	return nil
}

// dumpField emits the declaration of the field at the cursor and advances
// it: one slot for inline encodings, two for split encodings whose element
// occupies the following slot. Variant choices recurse at depth+1.
func (d *Dumper) dumpField(fields []trace.Field, iter *int, nesting int) error {
	const op = "field dump"

	if *iter >= len(fields) {
		return trace.Errorf(trace.KindOverflow, op,
			"descriptor list exhausted at slot %d", *iter)
	}
	field := fields[*iter]
	pad := indent(nesting)

	switch t := field.Type.(type) {
	case trace.IntegerType:
		if err := d.printf("%s%s _%s;\n",
			pad, integerClause(t, d.integerByteOrder(t)), field.Name); err != nil {
			return err
		}
		*iter++

	case trace.FloatType:
		byteOrder := ""
		if t.ReverseByteOrder {
			byteOrder = d.reverseByteOrderClause()
		}
		if err := d.printf("%sfloating_point { exp_dig = %d; mant_dig = %d; align = %d;%s } _%s;\n",
			pad, t.ExpDig, t.MantDig, t.Alignment, byteOrder, field.Name); err != nil {
			return err
		}
		*iter++

	case trace.StringType:
		// Default encoding is UTF8.
		encoding := ""
		if t.Encoding == trace.EncodingASCII {
			encoding = " { encoding = ASCII; }"
		}
		if err := d.printf("%sstring%s _%s;\n", pad, encoding, field.Name); err != nil {
			return err
		}
		*iter++

	case trace.StructType:
		// Only empty aggregates are expressible.
		if t.NrFields != 0 {
			return trace.Errorf(trace.KindInvalidFormat, op,
				"struct %q declares %d fields, only empty structs are supported",
				field.Name, t.NrFields)
		}
		if err := d.printf("%sstruct {} _%s;\n", pad, field.Name); err != nil {
			return err
		}
		*iter++

	case trace.ArrayType:
		if err := d.printf("%s%s _%s[%d];\n",
			pad, integerClause(t.Elem, d.integerByteOrder(t.Elem)), field.Name, t.Length); err != nil {
			return err
		}
		*iter++

	case trace.ArrayNestableType:
		*iter++
		elem, err := nextIntegerSlot(fields, *iter, field.Name)
		if err != nil {
			return err
		}
		if t.Alignment != 0 {
			if err := d.printf("%sstruct { } align(%d) _%s_padding;\n",
				pad, t.Alignment, field.Name); err != nil {
				return err
			}
		}
		if err := d.printf("%s%s _%s[%d];\n",
			pad, integerClause(elem, d.integerByteOrder(elem)), field.Name, t.Length); err != nil {
			return err
		}
		*iter++

	case trace.SequenceType:
		if err := d.printf("%s%s __%s_length;\n",
			pad, integerClause(t.LengthType, d.integerByteOrder(t.LengthType)), field.Name); err != nil {
			return err
		}
		if err := d.printf("%s%s _%s[ __%s_length ];\n",
			pad, integerClause(t.Elem, d.integerByteOrder(t.Elem)), field.Name, field.Name); err != nil {
			return err
		}
		*iter++

	case trace.SequenceNestableType:
		*iter++
		elem, err := nextIntegerSlot(fields, *iter, field.Name)
		if err != nil {
			return err
		}
		if t.Alignment != 0 {
			if err := d.printf("%sstruct { } align(%d) _%s_padding;\n",
				pad, t.Alignment, field.Name); err != nil {
				return err
			}
		}
		if err := d.printf("%s%s _%s[ _%s ];\n",
			pad, integerClause(elem, d.integerByteOrder(elem)), field.Name, t.LengthName); err != nil {
			return err
		}
		*iter++

	case trace.EnumType:
		if err := d.dumpEnum(t.Name, t.ID, t.Container, field.Name, nesting); err != nil {
			return err
		}
		*iter++

	case trace.EnumNestableType:
		*iter++
		container, err := nextIntegerSlot(fields, *iter, field.Name)
		if err != nil {
			return err
		}
		if err := d.dumpEnum(t.Name, t.ID, container, field.Name, nesting); err != nil {
			return err
		}
		*iter++

	case trace.VariantType:
		return d.dumpVariant(fields, iter, nesting, t.NrChoices, t.TagName, 0, field.Name)

	case trace.VariantNestableType:
		return d.dumpVariant(fields, iter, nesting, t.NrChoices, t.TagName, t.Alignment, field.Name)

	default:
		return trace.Errorf(trace.KindInvalidFormat, op,
			"unsupported descriptor type %T for field %q", field.Type, field.Name)
	}
	return nil
}

// nextIntegerSlot validates the element slot of a split encoding: it must
// exist and hold an integer. The format cannot express anything else as an
// array, sequence or enum-container element.
func nextIntegerSlot(fields []trace.Field, iter int, name string) (trace.IntegerType, error) {
	const op = "field dump"

	if iter >= len(fields) {
		return trace.IntegerType{}, trace.Errorf(trace.KindOverflow, op,
			"missing element descriptor for field %q", name)
	}
	elem, ok := fields[iter].Type.(trace.IntegerType)
	if !ok {
		return trace.IntegerType{}, trace.Errorf(trace.KindInvalidFormat, op,
			"field %q: element descriptor is %T, only integers are supported",
			name, fields[iter].Type)
	}
	return elem, nil
}
