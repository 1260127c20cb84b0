package codes

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-bcd/pkg/app"
)

// FormatOutput writes the catalog to w according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case app.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case app.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case app.FormatTable:
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func mark(match bool) string {
	if match {
		return "ok"
	}
	return "MISMATCH"
}

func formatTable(out io.Writer, response *Response) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "OBJECT TYPE\tCATEGORY\tSUBTYPE\tID\tCODE\tEXPECTED\tCHECK\n")
	fmt.Fprintf(w, "-----------\t--------\t-------\t--\t----\t--------\t-----\n")
	for _, o := range response.Objects {
		fmt.Fprintf(w, "%s\t%s\t%s\t0x%x\t%s\t%s\t%s\n", o.Name, o.Category, o.Subtype, o.ID, o.Code, o.Expected, mark(o.Match))
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "ELEMENT TYPE\tCLASS\tFORMAT\tID\tKEY\tEXPECTED\tCHECK\n")
	fmt.Fprintf(w, "------------\t-----\t------\t--\t---\t--------\t-----\n")
	for _, e := range response.Elements {
		fmt.Fprintf(w, "%s\t%s\t%s\t0x%x\t%s\t%s\t%s\n", e.Name, e.Class, e.Format, e.ID, e.Key, e.Expected, mark(e.Match))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if response.Valid {
		fmt.Fprintf(out, "\nAll %d identifiers match\n", len(response.Objects)+len(response.Elements))
	} else {
		fmt.Fprintf(out, "\nSelf-check failed\n")
	}
	return nil
}
