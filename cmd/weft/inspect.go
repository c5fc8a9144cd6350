package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weft-io/weft/internal/cli/config"
	"github.com/weft-io/weft/internal/cli/ui"
)

var (
	inspectConfigPath string
	inspectNoColor    bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectConfigPath, "config", "c", "", "Session description file (default weft.yml)")
	inspectCmd.Flags().BoolVar(&inspectNoColor, "no-color", false, "Disable colored output")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a session description",
	Long: `Load a YAML session description and list its identity, enumerations,
channels and events without rendering the schema document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(inspectConfigPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		kv := ui.NewKeyValueTable(out, inspectNoColor)
		kv.Add("Session", sessionName(cfg))
		kv.Add("Buffering", cfg.Session.Buffering)
		if cfg.Session.Buffering == "per-process" {
			kv.Add("Process", fmt.Sprintf("%s (pid %d)", cfg.Session.Process.Name, cfg.Session.Process.PID))
		} else {
			kv.Add("UID", strconv.Itoa(cfg.Session.UID))
		}
		kv.Add("Tracer", fmt.Sprintf("%d.%d", cfg.Session.TracerMajor, cfg.Session.TracerMinor))
		kv.Render()

		if len(cfg.Enums) > 0 {
			fmt.Fprintln(out)
			tbl := ui.NewTable(out, inspectNoColor, "ENUM", "ENTRIES")
			for _, e := range cfg.Enums {
				tbl.AddRow(e.Name, strconv.Itoa(len(e.Entries)))
			}
			tbl.Render()
		}

		fmt.Fprintln(out)
		tbl := ui.NewTable(out, inspectNoColor, "CHANNEL", "HEADER", "EVENT", "LOGLEVEL", "FIELDS")
		for i, ch := range cfg.Channels {
			if len(ch.Events) == 0 {
				tbl.AddRow(strconv.Itoa(i), ch.Header, "-", "-", "-")
			}
			for _, ev := range ch.Events {
				tbl.AddRow(strconv.Itoa(i), ch.Header, ev.Name,
					strconv.FormatInt(int64(ev.Loglevel), 10),
					strconv.Itoa(len(ev.Fields)))
			}
		}
		tbl.Render()
		return nil
	},
}

func sessionName(cfg *config.Config) string {
	if cfg.Session.Name == "" {
		return "auto"
	}
	return cfg.Session.Name
}
