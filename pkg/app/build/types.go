package build

import (
	"time"

	"github.com/deploymenttheory/go-bcd/internal/config"
)

// Request represents a store build request
type Request struct {
	config.BuildConfig
}

// Response describes the store written by a build
type Response struct {
	Destination string          `json:"destination" yaml:"destination"`
	LoaderID    string          `json:"loader_id" yaml:"loader_id"`
	ResumeID    string          `json:"resume_id" yaml:"resume_id"`
	Objects     []ObjectSummary `json:"objects" yaml:"objects"`
	BuildTime   time.Duration   `json:"build_time" yaml:"build_time"`
}

// ObjectSummary describes one written object
type ObjectSummary struct {
	ID       string           `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Type     string           `json:"type" yaml:"type"`
	Elements []ElementSummary `json:"elements" yaml:"elements"`
}

// ElementSummary describes one written element
type ElementSummary struct {
	Key       string `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	ValueType string `json:"value_type" yaml:"value_type"`
	Value     string `json:"value" yaml:"value"`
}

// ElementCount returns the number of elements across all objects
func (r *Response) ElementCount() int {
	n := 0
	for _, o := range r.Objects {
		n += len(o.Elements)
	}
	return n
}
