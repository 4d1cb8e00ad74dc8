package main

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/tiercache/disk"
	"github.com/IvanBrykalov/tiercache/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	root      string
	folder    string
	logLevel  string
	logFormat string

	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:          "tiercache",
		Short:        "Benchmark and manage tiercache stores",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := logging.Parse(g.logLevel, g.logFormat)
			if err != nil {
				return err
			}
			g.log = logging.New(cmd.ErrOrStderr(), cfg)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.root, "root", "", "top-level caches directory (default: the user cache dir)")
	pf.StringVar(&g.folder, "folder", disk.DefaultFolder, "folder under --root holding this library's records")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
	pf.StringVar(&g.logFormat, "log-format", "console", "log format: console|json")

	cmd.AddCommand(
		newBenchCmd(g),
		newPurgeCmd(g),
		newClearCmd(g),
		newDuCmd(g),
	)
	return cmd
}

func (g *globalFlags) diskConfig() disk.Config {
	return disk.Config{Root: g.root, Folder: g.folder, Logger: &g.log}
}

// openStore opens the record store selected by the global flags. Record
// values are kept opaque; the management commands never decode them.
func (g *globalFlags) openStore() (*disk.Store[string, json.RawMessage], error) {
	return disk.New[string, json.RawMessage](g.diskConfig())
}
