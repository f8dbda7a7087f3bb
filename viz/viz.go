// Package viz exports machine snapshots as Graphviz DOT, JSON, and YAML.
// All exports are one-way: they describe a machine for inspection and
// documentation, they do not reconstruct one.
package viz

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

// ExportDOT generates Graphviz DOT source for the snapshot. The current
// state, if any, is filled; edge labels show guard arity.
func ExportDOT(snap fsmx.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Machine {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	buf.WriteString(fmt.Sprintf("  label=%q;\n", graphLabel(snap)))

	for _, s := range snap.States {
		style := ""
		if s.Name == snap.Current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		buf.WriteString(fmt.Sprintf("  %q [label=%q%s];\n", s.Name, s.Name, style))
	}
	for _, t := range snap.Transitions {
		if t.Predicates > 0 {
			buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", t.From, t.To, guardLabel(t.Predicates)))
		} else {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", t.From, t.To))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the snapshot as indented JSON.
func ExportJSON(snap fsmx.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// ExportYAML serializes the snapshot as YAML.
func ExportYAML(snap fsmx.Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

func graphLabel(snap fsmx.Snapshot) string {
	status := "stopped"
	if snap.Running {
		status = "running"
	}
	return fmt.Sprintf("%s (%s)", snap.MachineID, status)
}

func guardLabel(n int) string {
	if n == 1 {
		return "1 guard"
	}
	return fmt.Sprintf("%d guards", n)
}
