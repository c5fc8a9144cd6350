package metadata

import (
	"testing"

	"github.com/weft-io/weft/internal/registry"
	"github.com/weft-io/weft/internal/trace"
)

func BenchmarkDumpFields(b *testing.B) {
	s := registry.NewPerUserSession(registry.SessionConfig{ABI: testABI}, 0)
	d := Begin(s)
	defer d.End()

	fields := []trace.Field{
		{Name: "count", Type: trace.IntegerType{Size: 32, Alignment: 8, Signed: true, Base: 10}},
		{Name: "ratio", Type: trace.FloatType{ExpDig: 11, MantDig: 53, Alignment: 8}},
		{Name: "msg", Type: trace.StringType{}},
		{Name: "seq", Type: trace.SequenceType{
			Elem:       trace.IntegerType{Size: 8, Alignment: 8, Base: 10},
			LengthType: trace.IntegerType{Size: 32, Alignment: 8, Base: 10},
		}},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := d.dumpFields(fields, 2); err != nil {
			b.Fatal(err)
		}
	}
}
