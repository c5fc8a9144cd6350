package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/weft-io/weft/internal/cli/config"
	"github.com/weft-io/weft/internal/metadata"
)

var (
	schemaConfigPath string
	schemaOutput     string
	schemaVerbose    bool
)

func init() {
	schemaCmd.Flags().StringVarP(&schemaConfigPath, "config", "c", "", "Session description file (default weft.yml)")
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Mirror the document to a file")
	schemaCmd.Flags().BoolVar(&schemaVerbose, "verbose", false, "Show registration and dump diagnostics")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Render the trace-schema document for a session description",
	Long: `Build a session registry from a YAML session description, run the
session and channel statedumps, and print the resulting schema document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zap.NewNop()
		if schemaVerbose {
			dev, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			logger = dev
			defer logger.Sync() //nolint:errcheck
		}

		cfg, err := config.Load(schemaConfigPath)
		if err != nil {
			return err
		}

		var mirror *os.File
		if schemaOutput != "" {
			mirror, err = os.Create(schemaOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer mirror.Close()
		}

		sess, err := config.BuildSession(cfg, logger, mirrorWriter(mirror))
		if err != nil {
			return err
		}

		dump := metadata.Begin(sess)
		defer dump.End()

		if err := dump.SessionStatedump(); err != nil {
			return fmt.Errorf("session statedump failed: %w", err)
		}
		for _, ch := range sess.Channels() {
			if err := dump.ChannelStatedump(ch); err != nil {
				return fmt.Errorf("channel %d statedump failed: %w", ch.ID(), err)
			}
		}

		if schemaOutput == "" {
			if _, err := os.Stdout.Write(sess.Metadata()); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(os.Stderr, color.GreenString("wrote %d bytes to %s",
				len(sess.Metadata()), schemaOutput))
		}
		return nil
	},
}

// mirrorWriter keeps a nil *os.File from becoming a non-nil io.Writer.
func mirrorWriter(f *os.File) io.Writer {
	if f == nil {
		return nil
	}
	return f
}
