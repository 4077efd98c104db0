package config

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/layout"
	"github.com/goliatone/go-richcard/pkg/placeholder"
)

// Severity grades lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single lint result.
type Finding struct {
	Severity Severity
	Location string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s -> %s", f.Severity, f.Location, f.Message)
}

// Lint cross-checks params against the layout template: tokens without a
// param, params the layout never references, and widgets registry cannot
// build. A nil registry uses emulator.NewDefaultRegistry.
func Lint(doc Document, registry *emulator.Registry) []Finding {
	if registry == nil {
		registry = emulator.NewDefaultRegistry()
	}

	var findings []Finding

	text, err := doc.Template()
	if err != nil {
		return []Finding{{Severity: SeverityError, Location: doc.LayoutPath, Message: err.Error()}}
	}

	referenced := make(map[string]bool)
	for _, key := range placeholder.Tokens(text) {
		referenced[key] = true
		if _, ok := doc.Field(key); !ok {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Location: "layout",
				Message:  fmt.Sprintf("token %s has no param and will be removed", placeholder.Token(key)),
			})
		}
	}
	for _, field := range doc.Params {
		if !referenced[field.Param] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Location: "params",
				Message:  fmt.Sprintf("param %q is not referenced by the layout", field.Param),
			})
		}
	}

	root, err := doc.LayoutNode()
	if err != nil {
		findings = append(findings, Finding{Severity: SeverityError, Location: "layout", Message: err.Error()})
	} else {
		findings = append(findings, lintWidgets(root, "layout", registry)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity == SeverityError
		}
		return findings[i].Location < findings[j].Location
	})
	return findings
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			return true
		}
	}
	return false
}

func lintWidgets(node layout.Node, location string, registry *emulator.Registry) []Finding {
	var findings []Finding
	for idx, child := range node.Children {
		path := fmt.Sprintf("%s.children[%d]", location, idx)
		if _, ok := registry.Lookup(child.Widget); !ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Location: path,
				Message:  fmt.Sprintf("unsupported widget %q", child.Widget),
			})
			continue
		}
		findings = append(findings, lintWidgets(child, path, registry)...)
	}
	return findings
}
