// Package config loads build settings from a config file, BCD_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// Setting keys.
const (
	KeyDestination        = "destination"
	KeyDiskID             = "disk_id"
	KeyEFIPartitionID     = "efi_partition_id"
	KeyWindowsPartitionID = "windows_partition_id"
	KeyLocale             = "locale"
	KeyTimeout            = "timeout"
	KeyLoaderDescription  = "loader_description"
	KeyDistinctLoaderType = "distinct_loader_type"
	KeyManifest           = "manifest"
	KeyDiskImage          = "disk_image"
)

// EnvPrefix is prepended to upper-cased keys to form environment variable names, e.g. BCD_DISK_ID.
const EnvPrefix = "BCD"

// BuildConfig holds the raw build settings. Identifiers are kept as text here and parsed by the
// build request validator.
type BuildConfig struct {
	Destination        string `mapstructure:"destination" yaml:"destination"`
	DiskID             string `mapstructure:"disk_id" yaml:"disk_id"`
	EFIPartitionID     string `mapstructure:"efi_partition_id" yaml:"efi_partition_id"`
	WindowsPartitionID string `mapstructure:"windows_partition_id" yaml:"windows_partition_id"`
	Locale             string `mapstructure:"locale" yaml:"locale"`
	Timeout            uint64 `mapstructure:"timeout" yaml:"timeout"`
	LoaderDescription  string `mapstructure:"loader_description" yaml:"loader_description"`
	DistinctLoaderType bool   `mapstructure:"distinct_loader_type" yaml:"distinct_loader_type"`
	Manifest           string `mapstructure:"manifest" yaml:"manifest,omitempty"`
	DiskImage          string `mapstructure:"disk_image" yaml:"disk_image,omitempty"`
}

// New returns a viper instance with the search paths, defaults and environment binding of
// bcd-config.yaml.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("bcd-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.bcd")
	v.AddConfigPath("/etc/bcd")

	// Unmarshal only sees environment values for keys that have a default.
	v.SetDefault(KeyDestination, "")
	v.SetDefault(KeyDiskID, "")
	v.SetDefault(KeyEFIPartitionID, "")
	v.SetDefault(KeyWindowsPartitionID, "")
	v.SetDefault(KeyLocale, types.DefaultLocale)
	v.SetDefault(KeyTimeout, types.DefaultBootManagerTimeout)
	v.SetDefault(KeyLoaderDescription, types.DefaultLoaderDescription)
	v.SetDefault(KeyDistinctLoaderType, false)
	v.SetDefault(KeyManifest, "")
	v.SetDefault(KeyDiskImage, "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// BindFlags binds settings to command-line flags. bindings maps a setting key to a flag name;
// flags that are absent from the set are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", name)
		}
	}
	return nil
}

// Load reads the config file, if any, and returns the merged settings. An explicit configFile
// must exist; a missing bcd-config.yaml in the search paths is not an error.
func Load(v *viper.Viper, configFile string) (*BuildConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	var cfg BuildConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}
	return &cfg, nil
}
