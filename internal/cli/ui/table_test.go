package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weft-io/weft/internal/trace"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, true, "ID", "NAME", "FIELDS")
	tbl.AddRow("0", "greet", "2")
	tbl.AddRow("1", "long-event-name", "0")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "ID  NAME             FIELDS", lines[0])
	require.Equal(t, "──  ───────────────  ──────", lines[1])
	require.Equal(t, "0   greet            2", lines[2])
	require.Equal(t, "1   long-event-name  0", lines[3])
	for _, line := range lines {
		require.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestTableRenderEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	require.Empty(t, buf.String())
}

func TestKeyValueTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewKeyValueTable(&buf, true)
	tbl.Add("Session", "bench-run")
	tbl.Add("Buffering", "per-user")
	tbl.Render()

	require.Equal(t, "Session    bench-run\nBuffering  per-user\n", buf.String())
}

func TestFormatErrorStructured(t *testing.T) {
	err := trace.Errorf(trace.KindNotFound, "enum lookup", "unknown enum %q", "status")
	out := FormatError(err, true)

	require.Contains(t, out, "NOT FOUND")
	require.Contains(t, out, "enum lookup")
	require.Contains(t, out, "→ check that every enum referenced by a field is declared")
}

func TestFormatErrorPlain(t *testing.T) {
	out := FormatError(errors.New("boom"), true)
	require.Equal(t, "error: boom\n", out)
}
