package metadata

import "github.com/weft-io/weft/internal/trace"

// dumpVariant emits a tagged-union block. The variant's own descriptor slot
// is consumed once up front; the following nrChoices slots are its choices,
// emitted by recursing into the walker one nesting level deeper. Alignment
// is zero for the inline encoding and descriptor-supplied for the split one.
func (d *Dumper) dumpVariant(fields []trace.Field, iter *int, nesting int,
	nrChoices uint32, tagName string, alignment uint32, fieldName string) error {
	const op = "variant dump"

	pad := indent(nesting)
	*iter++

	if alignment != 0 {
		if err := d.printf("%sstruct { } align(%d) _%s_padding;\n",
			pad, alignment, fieldName); err != nil {
			return err
		}
	}
	if err := d.printf("%svariant <_%s> {\n", pad, sanitizeIdentifier(tagName)); err != nil {
		return err
	}

	for i := uint32(0); i < nrChoices; i++ {
		if *iter >= len(fields) {
			return trace.Errorf(trace.KindOverflow, op,
				"variant %q declares %d choices, descriptor list exhausted after %d",
				fieldName, nrChoices, i)
		}
		if err := d.dumpField(fields, iter, nesting+1); err != nil {
			return err
		}
	}

	return d.printf("%s} _%s;\n", pad, sanitizeIdentifier(fieldName))
}
