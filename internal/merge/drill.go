package merge

import (
	"bufio"
	"fmt"
	"sort"

	"github.com/gerbmerge-go/panelizer/internal/gerberio"
)

// validateTools checks every placed job's drill tool names against the
// global tool table (spec §7 ToolMissingInGlobalMap).
func (m *Merger) validateTools() error {
	for _, e := range m.Placement.Entries {
		for tool := range e.Job.Drill.Diameters {
			if _, ok := m.GTM[tool]; !ok {
				return &ToolMissingInGlobalMap{Job: e.Job.Name, Tool: tool}
			}
		}
	}
	return nil
}

// EmitDrillFile writes the merged Excellon drill program once: header,
// tool definitions in ascending tool-code order with diameters from
// GlobalToolMap, then per tool every placed job's drill hits at its
// placement offset and rotation, then the footer (spec §4.7).
func (m *Merger) EmitDrillFile(path string) error {
	if err := m.validateTools(); err != nil {
		return err
	}
	tools := sortedTools(m.GTM)
	return writeTempThenRename(path, func(w *bufio.Writer) error {
		if err := gerberio.WriteExcellonHeader(w); err != nil {
			return err
		}
		for _, t := range tools {
			if err := gerberio.WriteExcellonTool(w, t, m.GTM[t]); err != nil {
				return err
			}
		}
		for _, t := range tools {
			if err := gerberio.WriteApertureSelect(w, t); err != nil {
				return err
			}
			for _, e := range m.Placement.Entries {
				if _, ok := e.Job.Drill.Diameters[t]; !ok {
					continue
				}
				ej, err := m.effectiveJob(e)
				if err != nil {
					return err
				}
				if err := ej.EmitDrill(w, t, e.X, e.Y, false); err != nil {
					return err
				}
			}
		}
		return gerberio.WriteExcellonFooter(w)
	})
}

func sortedTools(gtm map[string]float64) []string {
	tools := make([]string, 0, len(gtm))
	for t := range gtm {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// WriteToolListFile writes a plain-text tool list (one "Tnn diameter"
// line per tool, ascending) as a human-readable companion to the drill
// file (spec §6 "A tool list text file").
func (m *Merger) WriteToolListFile(path string) error {
	tools := sortedTools(m.GTM)
	return writeTempThenRename(path, func(w *bufio.Writer) error {
		for _, t := range tools {
			if _, err := fmt.Fprintf(w, "%s %.6f\n", t, m.GTM[t]); err != nil {
				return err
			}
		}
		return nil
	})
}
