package discardederr_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ersonp/lore-chrono/tools/chrono-lint/analyzers/discardederr"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, discardederr.Analyzer, "b")
}
