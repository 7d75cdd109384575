package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/gqlfront/config"
)

const version = "0.1.0"

// app carries what the root command resolves before any subcommand runs.
type app struct {
	configFile string
	logFile    string
	verbosity  int
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "gqlfront",
		Short:        "Parse, check and format GraphQL documents",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default gqlfront.yaml in . or $HOME/.gqlfront)")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")
	config.AddParserFlags(flags)

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newCommentsCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newFmtCmd(a))
	rootCmd.AddCommand(newStreamCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.logFile != "" {
		commonlog.Configure(a.verbosity, &a.logFile)
	} else {
		commonlog.Configure(a.verbosity, nil)
	}

	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return err
	}
	cfg.Apply()
	a.cfg = cfg
	return nil
}
