package build

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-bcd/internal/config"
	"github.com/deploymenttheory/go-bcd/internal/encoders/device"
	"github.com/deploymenttheory/go-bcd/internal/types"
	"github.com/deploymenttheory/go-bcd/pkg/app"
)

const (
	diskID    = "f470029f-14da-41dc-a2ac-f14b055d4a92"
	efiID     = "e9cc797b-4481-4f8d-910c-a7295adc39f1"
	windowsID = "{7D6EF3A1-0F52-4C8B-9A1E-54B0F6B2D3C4}"
)

func validRequest(t *testing.T) Request {
	return Request{BuildConfig: config.BuildConfig{
		Destination:        filepath.Join(t.TempDir(), "BCD"),
		DiskID:             diskID,
		EFIPartitionID:     efiID,
		WindowsPartitionID: windowsID,
		Timeout:            30,
	}}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr bool
		errCode string
	}{
		{
			name:   "valid request",
			modify: func(r *Request) {},
		},
		{
			name:    "missing destination",
			modify:  func(r *Request) { r.Destination = "" },
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "destination directory missing",
			modify:  func(r *Request) { r.Destination = filepath.Join(r.Destination, "nope", "BCD") },
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "missing disk",
			modify:  func(r *Request) { r.DiskID = "" },
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "malformed efi partition",
			modify:  func(r *Request) { r.EFIPartitionID = "not-a-guid" },
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "manifest directory missing",
			modify:  func(r *Request) { r.Manifest = "/does/not/exist/manifest.yaml" },
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.modify(&req)
			_, err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, app.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_ValidateConvertsConfig(t *testing.T) {
	req := validRequest(t)
	req.Locale = "nl-NL"
	req.Timeout = 3
	req.DistinctLoaderType = true

	cfg, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, req.Destination, cfg.Destination)
	assert.Equal(t, uuid.MustParse(diskID), cfg.DiskID)
	assert.Equal(t, uuid.MustParse(efiID), cfg.EFIPartitionID)
	assert.Equal(t, uuid.MustParse("7d6ef3a1-0f52-4c8b-9a1e-54b0f6b2d3c4"), cfg.WindowsPartitionID)
	assert.Equal(t, "nl-NL", cfg.Locale)
	assert.Equal(t, "Windows 10", cfg.LoaderDescription)
	assert.Equal(t, uint64(3), cfg.Timeout)
	assert.True(t, cfg.DistinctLoaderType)
}

// writeImage writes a raw image whose GPT holds an EFI system partition and a
// basic data partition.
func writeImage(t *testing.T, disk, esp, windows string) string {
	t.Helper()
	le := binary.LittleEndian
	img := make([]byte, 4*types.GPTSectorSize)

	header := img[types.GPTHeaderOffset:]
	copy(header, types.GPTSignature)
	d := device.MixedEndian(uuid.MustParse(disk))
	copy(header[types.GPTHeaderDiskGUIDOffset:], d[:])
	le.PutUint64(header[types.GPTHeaderEntriesLBAOffset:], 2)
	le.PutUint32(header[types.GPTHeaderEntryCountOffset:], 2)
	le.PutUint32(header[types.GPTHeaderEntrySizeOffset:], types.GPTMinimumEntrySize)

	for i, p := range [][2]string{{types.GPTTypeEFISystem, esp}, {types.GPTTypeMicrosoftBasic, windows}} {
		entry := img[2*types.GPTSectorSize+i*types.GPTMinimumEntrySize:]
		typ := device.MixedEndian(uuid.MustParse(p[0]))
		id := device.MixedEndian(uuid.MustParse(p[1]))
		copy(entry[types.GPTEntryTypeGUIDOffset:], typ[:])
		copy(entry[types.GPTEntryUniqueGUIDOffset:], id[:])
	}

	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, img, 0o644))
	return path
}

func TestRequest_ValidateFromImage(t *testing.T) {
	imgDisk := "0a0b0c0d-0e0f-4011-8213-141516171819"
	imgESP := "20212223-2425-4627-8829-2a2b2c2d2e2f"
	imgWindows := "30313233-3435-4637-8839-3a3b3c3d3e3f"

	req := validRequest(t)
	req.DiskID = ""
	req.EFIPartitionID = ""
	req.DiskImage = writeImage(t, imgDisk, imgESP, imgWindows)

	cfg, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(imgDisk), cfg.DiskID)
	assert.Equal(t, uuid.MustParse(imgESP), cfg.EFIPartitionID)
	// Explicit identifiers win over the image.
	assert.Equal(t, uuid.MustParse("7d6ef3a1-0f52-4c8b-9a1e-54b0f6b2d3c4"), cfg.WindowsPartitionID)
}

func TestRequest_ValidateFromImageErrors(t *testing.T) {
	req := validRequest(t)
	req.DiskImage = filepath.Join(t.TempDir(), "missing.img")
	_, err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeInvalidInput, app.ErrorCode(err))

	blank := filepath.Join(t.TempDir(), "blank.img")
	require.NoError(t, os.WriteFile(blank, make([]byte, 4096), 0o644))
	req.DiskImage = blank
	_, err = req.Validate()
	require.Error(t, err)
	assert.Equal(t, app.ErrCodeInvalidInput, app.ErrorCode(err))
}
