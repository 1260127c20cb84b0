// Package codes lists the well-known BCD identifier catalog and runs its self-check.
package codes

import (
	"fmt"

	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/types"
	"github.com/deploymenttheory/go-bcd/pkg/app"
)

// Request represents a catalog listing request
type Request struct {
	// Verify fails the request when any computed code differs from its literal
	Verify bool
}

// Response lists every catalog entry with its computed and expected codes
type Response struct {
	Objects  []ObjectCode  `json:"objects" yaml:"objects"`
	Elements []ElementCode `json:"elements" yaml:"elements"`
	Valid    bool          `json:"valid" yaml:"valid"`
}

// ObjectCode is one object type entry
type ObjectCode struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Subtype  string `json:"subtype" yaml:"subtype"`
	ID       uint32 `json:"id" yaml:"id"`
	Code     string `json:"code" yaml:"code"`
	Expected string `json:"expected" yaml:"expected"`
	Match    bool   `json:"match" yaml:"match"`
}

// ElementCode is one element type entry
type ElementCode struct {
	Name     string `json:"name" yaml:"name"`
	Class    string `json:"class" yaml:"class"`
	Format   string `json:"format" yaml:"format"`
	ID       uint32 `json:"id" yaml:"id"`
	Key      string `json:"key" yaml:"key"`
	Expected string `json:"expected" yaml:"expected"`
	Match    bool   `json:"match" yaml:"match"`
}

// Handle lists the catalog
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	return handle(ctx, req, identifiers.ObjectTypes, identifiers.ElementTypes)
}

func handle(ctx *app.Context, req *Request, objects []identifiers.ObjectTypeEntry, elements []identifiers.ElementTypeEntry) (*Response, error) {
	response := &Response{Valid: true}

	for _, e := range objects {
		code := e.Code()
		response.Objects = append(response.Objects, ObjectCode{
			Name:     e.Name,
			Category: e.Category.String(),
			Subtype:  subtypeName(e.Category, e.Subtype),
			ID:       e.ID,
			Code:     code.String(),
			Expected: e.Expected.String(),
			Match:    code == e.Expected,
		})
	}
	for _, e := range elements {
		key := e.Key()
		response.Elements = append(response.Elements, ElementCode{
			Name:     e.Name,
			Class:    e.Class.String(),
			Format:   e.Format.String(),
			ID:       e.ID,
			Key:      key,
			Expected: e.Expected,
			Match:    key == e.Expected,
		})
	}

	ctx.Log(fmt.Sprintf("Checked %d object types and %d element types", len(objects), len(elements)))

	if err := identifiers.VerifyEntries(objects, elements); err != nil {
		response.Valid = false
		ctx.Error(err.Error())
		if req.Verify {
			return response, app.NewError(app.ErrCodeSelfCheck, "identifier catalog self-check failed", err)
		}
	}
	return response, nil
}

// subtypeName names a subtype; the meaning of the field depends on the category.
func subtypeName(category types.ObjectCategory, subtype types.ObjectSubtype) string {
	switch category {
	case types.ObjectCategoryApplication:
		switch subtype {
		case types.ObjectApplicationFirmware:
			return "firmware"
		case types.ObjectApplicationWindowsBoot:
			return "windows-boot"
		case types.ObjectApplicationLegacyLoader:
			return "legacy-loader"
		case types.ObjectApplicationRealMode:
			return "real-mode"
		}
	case types.ObjectCategoryInheritable, types.ObjectCategoryDevice:
		switch subtype {
		case types.ObjectInheritableByAny:
			return "any"
		case types.ObjectInheritableByApplication:
			return "application"
		case types.ObjectInheritableByDevice:
			return "device"
		}
	}
	return fmt.Sprintf("0x%08x", uint32(subtype))
}
