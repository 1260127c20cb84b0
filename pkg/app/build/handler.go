package build

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/deploymenttheory/go-bcd/internal/builders/bcd"
	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/encoders/values"
	"github.com/deploymenttheory/go-bcd/internal/hive"
	"github.com/deploymenttheory/go-bcd/internal/interfaces"
	"github.com/deploymenttheory/go-bcd/pkg/app"
)

// Handle processes a build request
func Handle(ctx *app.Context, req *Request, opts ...bcd.Option) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	cfg, err := req.Validate()
	if err != nil {
		return nil, err
	}

	// 2. Identifier tables must be sound before anything is written
	ctx.Progress("Verifying identifier catalog...", 10)
	if err := identifiers.Verify(); err != nil {
		return nil, app.NewError(app.ErrCodeSelfCheck, "identifier catalog self-check failed", err)
	}

	ctx.Log(fmt.Sprintf("Building BCD store at: %s", cfg.Destination))
	ctx.Progress("Composing objects...", 30)

	// 3. Compose, validate, write and commit
	store := hive.NewStore()
	builder := bcd.NewGraphBuilder(cfg, store, append([]bcd.Option{bcd.WithLogger(ctx.Logger)}, opts...)...)
	result, err := builder.Build()
	if err != nil {
		return nil, classify(err)
	}

	ctx.Progress("Store committed", 90)

	response := newResponse(result)
	response.BuildTime = time.Since(startTime)

	// 4. Optional manifest
	if req.Manifest != "" {
		if err := WriteManifest(req.Manifest, response); err != nil {
			return nil, app.NewError(app.ErrCodeOutput, "failed to write manifest", err)
		}
		ctx.Log(fmt.Sprintf("Manifest written to: %s", req.Manifest))
	}

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Build completed: %d objects, %d elements in %v",
		len(response.Objects), response.ElementCount(), response.BuildTime))

	return response, nil
}

// classify maps builder failures to application error codes
func classify(err error) error {
	switch {
	case errors.Is(err, identifiers.ErrSelfCheck):
		return app.NewError(app.ErrCodeSelfCheck, "identifier catalog self-check failed", err)
	case errors.Is(err, bcd.ErrDanglingReference),
		errors.Is(err, bcd.ErrInheritanceCycle),
		errors.Is(err, bcd.ErrDuplicateObject),
		errors.Is(err, bcd.ErrDuplicateElement),
		errors.Is(err, bcd.ErrIdentityMismatch),
		errors.Is(err, bcd.ErrMissingObject),
		errors.Is(err, bcd.ErrInvalidIdentifiers):
		return app.NewError(app.ErrCodeGraphInvalid, "object graph is inconsistent", err)
	case errors.Is(err, bcd.ErrNoDestination):
		return app.NewError(app.ErrCodeInvalidInput, "destination path is required", err)
	default:
		return app.NewError(app.ErrCodeStoreWrite, "failed to write BCD store", err)
	}
}

func newResponse(result *interfaces.BuildResult) *Response {
	response := &Response{
		Destination: result.Destination,
		LoaderID:    result.LoaderID,
		ResumeID:    result.ResumeID,
		Objects:     make([]ObjectSummary, 0, len(result.Objects)),
	}
	for _, obj := range result.Objects {
		summary := ObjectSummary{
			ID:       obj.ID,
			Name:     obj.Name,
			Type:     obj.Type.String(),
			Elements: make([]ElementSummary, 0, len(obj.Elements)),
		}
		for _, e := range obj.Elements {
			summary.Elements = append(summary.Elements, ElementSummary{
				Key:       e.Type.String(),
				Name:      e.Name,
				ValueType: e.Value.Type.String(),
				Value:     values.Render(e.Value),
			})
		}
		response.Objects = append(response.Objects, summary)
	}
	return response
}
