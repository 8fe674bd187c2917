// Package analyzers lists the custom analyzers run by chrono-lint.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/lore-chrono/tools/chrono-lint/analyzers/discardederr"
	"github.com/ersonp/lore-chrono/tools/chrono-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		discardederr.Analyzer,
		loopcall.Analyzer,
	}
}
