package app

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    bool
	}{
		{"default", false, false, false},
		{"verbose", true, false, true},
		{"quiet wins", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := NewContext()
			ctx.Logger = zerolog.New(&buf)
			ctx.Verbose = tt.verbose
			ctx.Quiet = tt.quiet

			ctx.Log("hello")
			assert.Equal(t, tt.want, bytes.Contains(buf.Bytes(), []byte("hello")))
		})
	}
}

func TestContextError(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext()
	ctx.Logger = zerolog.New(&buf)

	ctx.Error("boom")
	assert.Contains(t, buf.String(), `"level":"error"`)

	buf.Reset()
	ctx.Quiet = true
	ctx.Error("boom")
	assert.Empty(t, buf.String())
}

func TestContextProgress(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext()
	ctx.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	var got []int
	ctx.SetProgress(func(message string, percent int) {
		got = append(got, percent)
	})
	ctx.Progress("half", 50)
	ctx.Progress("done", 100)

	assert.Equal(t, []int{50, 100}, got)
	assert.Contains(t, buf.String(), `"percent":50`)
}

func TestErrorCode(t *testing.T) {
	err := NewError(ErrCodeStoreWrite, "write failed", nil)
	assert.Equal(t, ErrCodeStoreWrite, ErrorCode(err))
	assert.Empty(t, ErrorCode(assert.AnError))
	assert.NoError(t, ValidateOutputFormat(FormatYAML))
	assert.Error(t, ValidateOutputFormat("xml"))
}
