package build

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-bcd/internal/builders/bcd"
	"github.com/deploymenttheory/go-bcd/internal/disk"
	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/pkg/app"
)

// Validate checks a build request and converts it into the builder configuration.
// Identifiers must be well-formed GUIDs; whether they name real disks and partitions is not checked.
func (r *Request) Validate() (bcd.Config, error) {
	cfg := bcd.DefaultConfig()

	if r.Destination == "" {
		return cfg, app.NewError(app.ErrCodeInvalidInput, "destination path is required", nil)
	}
	dir := filepath.Dir(r.Destination)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return cfg, app.NewError(app.ErrCodeInvalidInput, "destination directory does not exist: "+dir, err)
	}
	cfg.Destination = r.Destination

	if err := r.fillFromImage(); err != nil {
		return cfg, err
	}

	ids := []struct {
		flag  string
		value string
		into  *uuid.UUID
	}{
		{"disk", r.DiskID, &cfg.DiskID},
		{"efi-partition", r.EFIPartitionID, &cfg.EFIPartitionID},
		{"windows-partition", r.WindowsPartitionID, &cfg.WindowsPartitionID},
	}
	for _, id := range ids {
		if id.value == "" {
			return cfg, app.NewError(app.ErrCodeInvalidInput, id.flag+" identifier is required", nil)
		}
		parsed, err := identifiers.ParseGUID(id.value)
		if err != nil {
			return cfg, app.NewError(app.ErrCodeInvalidInput, "invalid "+id.flag+" identifier", err)
		}
		*id.into = parsed
	}

	if r.Locale != "" {
		cfg.Locale = r.Locale
	}
	if r.LoaderDescription != "" {
		cfg.LoaderDescription = r.LoaderDescription
	}
	cfg.Timeout = r.Timeout
	cfg.DistinctLoaderType = r.DistinctLoaderType

	if r.Manifest != "" {
		mdir := filepath.Dir(r.Manifest)
		if info, err := os.Stat(mdir); err != nil || !info.IsDir() {
			return cfg, app.NewError(app.ErrCodeInvalidInput, "manifest directory does not exist: "+mdir, err)
		}
	}

	return cfg, nil
}

// fillFromImage completes identifiers left empty from the partition table of DiskImage.
// Explicit identifiers always win.
func (r *Request) fillFromImage() error {
	if r.DiskImage == "" {
		return nil
	}
	table, err := disk.OpenPartitionTable(r.DiskImage)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "failed to read disk image partition table", err)
	}
	found, err := table.Identifiers()
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "disk image lacks a Windows partition layout", err)
	}

	if r.DiskID == "" {
		r.DiskID = found.DiskID.String()
	}
	if r.EFIPartitionID == "" {
		r.EFIPartitionID = found.EFIPartitionID.String()
	}
	if r.WindowsPartitionID == "" {
		r.WindowsPartitionID = found.WindowsPartitionID.String()
	}
	return nil
}
