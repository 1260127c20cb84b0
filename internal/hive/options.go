package hive

import (
	"os"
	"time"
)

// DefaultRootName is the name of the root key of a BCD store hive.
const DefaultRootName = "NewStoreRoot"

// filetimeEpochOffset is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const filetimeEpochOffset = 116444736000000000

// WriterOptions control how a store is serialized.
type WriterOptions struct {
	// RootName is the name of the root key.
	RootName string
	// Timestamp is the FILETIME written to the base block, the first bin and every key.
	// Zero unless set; never read from the clock.
	Timestamp uint64
	// MinorVersion is the regf minor format version.
	MinorVersion uint32
	// FileMode is applied to the committed file.
	FileMode os.FileMode
}

// DefaultWriterOptions returns the options used by NewStore.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		RootName:     DefaultRootName,
		MinorVersion: 5,
		FileMode:     0o644,
	}
}

// Option customizes a Store.
type Option func(*WriterOptions)

// WithRootName sets the name of the root key.
func WithRootName(name string) Option {
	return func(o *WriterOptions) {
		o.RootName = name
	}
}

// WithTimestamp sets the timestamp written into the hive.
func WithTimestamp(t time.Time) Option {
	return func(o *WriterOptions) {
		o.Timestamp = ToFiletime(t)
	}
}

// WithFileMode sets the permissions of the committed file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *WriterOptions) {
		o.FileMode = mode
	}
}

// ToFiletime converts t to a Windows FILETIME. Times before 1601 map to zero.
func ToFiletime(t time.Time) uint64 {
	ft := t.UnixNano()/100 + filetimeEpochOffset
	if ft < 0 {
		return 0
	}
	return uint64(ft)
}
