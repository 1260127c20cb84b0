package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bcd/pkg/app"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string
	configFile   string
)

var rootCmd = &cobra.Command{
	Use:   "bcdgen",
	Short: "Generate a Windows Boot Configuration Data (BCD) store",
	Long: `bcdgen writes a fresh UEFI BCD store without needing Windows or bcdedit.

The store contains the well-known settings groups, the Windows boot manager,
the firmware boot manager, the memory diagnostic, a Windows resume application
and a Windows OS loader, all pointing at the given disk and partitions.

Commands:
  build    Write a BCD store for a disk, EFI partition and Windows partition
  codes    List the BCD object and element type codes and verify them`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setLogLevel()
		return app.ValidateOutputFormat(outputFormat)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code := app.ErrorCode(err); code != "" {
			log.Error().Str("code", code).Msg(err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches ./bcd-config.yaml, $HOME/.bcd, /etc/bcd)")
}

func setLogLevel() {
	switch {
	case quiet:
		log.Logger = log.Logger.Level(zerolog.ErrorLevel)
	case verbose:
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// newContext builds the application context from the global flags
func newContext(cmd *cobra.Command) *app.Context {
	ctx := app.NewContext()
	ctx.Out = cmd.OutOrStdout()
	ctx.OutputFormat = outputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.ConfigFile = configFile
	ctx.Logger = log.Logger
	return ctx
}
