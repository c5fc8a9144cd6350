package metadata

import "github.com/weft-io/weft/internal/trace"

// dumpEnum resolves an enumeration registered with the session and emits
// its container type and value mappings. Entries may mix signedness
// independently; each bound prints with its own.
func (d *Dumper) dumpEnum(name string, id uint64, container trace.IntegerType, fieldName string, nesting int) error {
	reg, err := d.s.LookupEnum(name, id)
	if err != nil {
		return err
	}

	if err := d.printf("%senum : %s {\n",
		indent(nesting), integerClause(container, "")); err != nil {
		return err
	}

	entryPad := indent(nesting + 1)
	for _, entry := range reg.Entries() {
		if err := d.printf("%s\"%s\"", entryPad, escapeEnumLabel(entry.Label)); err != nil {
			return err
		}
		if entry.Auto {
			if err := d.printf(",\n"); err != nil {
				return err
			}
			continue
		}
		if err := d.printEnumValue(" = ", entry.Start); err != nil {
			return err
		}
		if entry.Start == entry.End {
			if err := d.printf(",\n"); err != nil {
				return err
			}
			continue
		}
		if err := d.printEnumValue(" ... ", entry.End); err != nil {
			return err
		}
		if err := d.printf(",\n"); err != nil {
			return err
		}
	}

	return d.printf("%s} _%s;\n", indent(nesting), sanitizeIdentifier(fieldName))
}

func (d *Dumper) printEnumValue(prefix string, v trace.EnumValue) error {
	if v.Signed {
		return d.printf("%s%d", prefix, int64(v.Value))
	}
	return d.printf("%s%d", prefix, v.Value)
}
