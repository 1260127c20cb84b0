package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-bcd/internal/config"
	"github.com/deploymenttheory/go-bcd/pkg/app"
	"github.com/deploymenttheory/go-bcd/pkg/app/build"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write a BCD store for a disk and its EFI and Windows partitions",
	Long: `Write a new BCD store to the destination path.

Identifiers are GPT GUIDs, with or without braces. With --from-image, any
identifier not given explicitly is read from the image's partition table: the
EFI system partition and the first Microsoft basic data partition. Every setting can also come
from bcd-config.yaml or a BCD_* environment variable (for example BCD_DISK_ID);
flags take precedence over both.

Examples:
  # Build a store for the EFI partition of disk f470029f...
  bcdgen build --disk f470029f-14da-41dc-a2ac-f14b055d4a92 \
    --efi-partition e9cc797b-4481-4f8d-910c-a7295adc39f1 \
    --windows-partition 7d6ef3a1-0f52-4c8b-9a1e-54b0f6b2d3c4 \
    --out /mnt/efi/EFI/Microsoft/Boot/BCD

  # Same, reading identifiers from a config file and writing a manifest
  bcdgen build --config ./bcd-config.yaml --manifest ./bcd-manifest.yaml -o yaml

  # Take the disk and partition identifiers from a raw disk image
  bcdgen build --from-image ./windows.img --out ./BCD`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd)
	},
}

// buildFlagBindings maps config keys to build flags
var buildFlagBindings = map[string]string{
	config.KeyDestination:        "out",
	config.KeyDiskID:             "disk",
	config.KeyEFIPartitionID:     "efi-partition",
	config.KeyWindowsPartitionID: "windows-partition",
	config.KeyLocale:             "locale",
	config.KeyTimeout:            "timeout",
	config.KeyLoaderDescription:  "loader-description",
	config.KeyDistinctLoaderType: "distinct-loader-type",
	config.KeyManifest:           "manifest",
	config.KeyDiskImage:          "from-image",
}

func init() {
	rootCmd.AddCommand(buildCmd)

	// Target
	buildCmd.Flags().String("out", "", "destination path of the BCD store")
	buildCmd.Flags().String("disk", "", "GPT disk GUID")
	buildCmd.Flags().String("efi-partition", "", "EFI system partition GUID")
	buildCmd.Flags().String("windows-partition", "", "Windows partition GUID")
	buildCmd.Flags().String("from-image", "", "read missing identifiers from the GPT of this raw disk image")

	// Store contents
	buildCmd.Flags().String("locale", "", "preferred locale (default en-US)")
	buildCmd.Flags().Uint64("timeout", 0, "boot menu timeout in seconds (default 30)")
	buildCmd.Flags().String("loader-description", "", "menu text of the Windows loader (default \"Windows 10\")")
	buildCmd.Flags().Bool("distinct-loader-type", false, "write the loader with the OS loader object type 0x10200003")

	// Reporting
	buildCmd.Flags().String("manifest", "", "write a YAML manifest of the built graph to this path")
}

func runBuild(cmd *cobra.Command) error {
	ctx := newContext(cmd)

	v := config.New()
	if err := config.BindFlags(v, cmd.Flags(), buildFlagBindings); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid flags", err)
	}
	settings, err := config.Load(v, ctx.ConfigFile)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}

	if ctx.Verbose && !ctx.Quiet {
		ctx.SetProgress(func(message string, percent int) {
			ctx.Logger.Info().Msgf("[%3d%%] %s", percent, message)
		})
	}

	req := &build.Request{BuildConfig: *settings}
	resp, err := build.Handle(ctx, req)
	if err != nil {
		return err
	}

	if ctx.Quiet {
		return nil
	}
	if err := build.FormatOutput(ctx.Out, resp, ctx.OutputFormat, ctx.Verbose); err != nil {
		return app.NewError(app.ErrCodeOutput, "failed to format output", err)
	}
	ctx.Log(build.FormatSummary(resp))
	return nil
}
