package build

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-bcd/pkg/app"
)

// FormatOutput writes build results to w according to output format
func FormatOutput(w io.Writer, response *Response, format string, verbose bool) error {
	switch format {
	case app.FormatJSON:
		return formatJSON(w, response)
	case app.FormatYAML:
		return formatYAML(w, response)
	case app.FormatTable:
		return formatTable(w, response, verbose)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable lists objects, and their elements when verbose
func formatTable(out io.Writer, response *Response, verbose bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "OBJECT\tNAME\tTYPE\tELEMENTS\n")
	fmt.Fprintf(w, "------\t----\t----\t--------\n")
	for _, obj := range response.Objects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", obj.ID, obj.Name, obj.Type, len(obj.Elements))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if verbose {
		for _, obj := range response.Objects {
			if len(obj.Elements) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s (%s)\n", obj.Name, obj.ID)
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, e := range obj.Elements {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", e.Key, e.Name, e.ValueType, e.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Loader: %s\n", response.LoaderID)
	fmt.Fprintf(out, "Resume: %s\n", response.ResumeID)
	fmt.Fprintf(out, "Wrote %d objects (%d elements) to %s in %v\n",
		len(response.Objects), response.ElementCount(), response.Destination, response.BuildTime)
	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// WriteManifest records the built graph as a YAML file next to the store
func WriteManifest(path string, response *Response) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create manifest %s", path)
	}
	if err := formatYAML(f, response); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to encode manifest %s", path)
	}
	return f.Close()
}

// ReadManifest loads a manifest written by WriteManifest
func ReadManifest(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	var response Response
	if err := yaml.Unmarshal(data, &response); err != nil {
		return nil, errors.Wrapf(err, "failed to decode manifest %s", path)
	}
	return &response, nil
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	return fmt.Sprintf("Built %d objects with %d elements (loader %s, resume %s)",
		len(response.Objects), response.ElementCount(), response.LoaderID, response.ResumeID)
}
