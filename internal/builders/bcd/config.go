// Package bcd composes the well-known BCD object graph and writes it into a hive store.
package bcd

import (
	"github.com/google/uuid"

	"github.com/deploymenttheory/go-bcd/internal/types"
)

// Config is the immutable input of one build.
type Config struct {
	// Destination is the path the store is committed to.
	Destination string

	// DiskID identifies the GPT disk holding both partitions.
	DiskID uuid.UUID
	// EFIPartitionID identifies the EFI system partition (boot manager, memory tester).
	EFIPartitionID uuid.UUID
	// WindowsPartitionID identifies the Windows partition (loader, resume application).
	WindowsPartitionID uuid.UUID

	// Locale is the preferred locale of every application object.
	Locale string
	// Timeout is the boot manager menu timeout in seconds. Zero is kept as zero (boot the
	// default entry at once); only DefaultConfig sets the 30 second default.
	Timeout uint64
	// LoaderDescription is the menu text of the OS loader entry.
	LoaderDescription string
	// DistinctLoaderType writes the loader with the OS loader object type instead of the
	// resume application type it shares by default.
	DistinctLoaderType bool
}

// DefaultConfig returns a Config with every optional field set to its default.
func DefaultConfig() Config {
	return Config{
		Locale:            types.DefaultLocale,
		Timeout:           types.DefaultBootManagerTimeout,
		LoaderDescription: types.DefaultLoaderDescription,
	}
}

// withDefaults fills the text fields left empty. Timeout has no unset state and is not touched.
func (c Config) withDefaults() Config {
	if c.Locale == "" {
		c.Locale = types.DefaultLocale
	}
	if c.LoaderDescription == "" {
		c.LoaderDescription = types.DefaultLoaderDescription
	}
	return c
}
