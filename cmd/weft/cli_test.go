package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testDescription = `
session:
  id: 1
  name: cli-test
  buffering: per-user
  uid: 1000

channels:
  - header: compact
    events:
      - name: greet
        loglevel: 13
        fields:
          - name: count
            class: integer
`

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "weft"}
	root.AddCommand(schemaCmd, inspectCmd, versionCmd)
	return root
}

func writeDescription(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weft.yml")
	require.NoError(t, os.WriteFile(path, []byte(testDescription), 0o644))
	return path
}

func TestSchemaCommandWritesDocument(t *testing.T) {
	cfgPath := writeDescription(t)
	outPath := filepath.Join(t.TempDir(), "metadata")

	root := newTestRoot()
	root.SetArgs([]string{"schema", "-c", cfgPath, "-o", outPath})
	require.NoError(t, root.Execute())

	doc, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(doc), "/* CTF 1.8 */\n\n"))
	require.Contains(t, string(doc), "trace_name = \"cli-test\";")
	require.Contains(t, string(doc), "name = \"greet\";")
}

func TestSchemaCommandMissingConfig(t *testing.T) {
	root := newTestRoot()
	root.SetArgs([]string{"schema", "-c", filepath.Join(t.TempDir(), "absent.yml")})
	require.Error(t, root.Execute())
}

func TestInspectCommand(t *testing.T) {
	cfgPath := writeDescription(t)

	var out bytes.Buffer
	root := newTestRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"inspect", "-c", cfgPath, "--no-color"})
	require.NoError(t, root.Execute())

	require.Contains(t, out.String(), "Session    cli-test")
	require.Contains(t, out.String(), "CHANNEL")
	require.Contains(t, out.String(), "greet")
}
