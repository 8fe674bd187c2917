// chrono-lint runs the project's custom static analyzers.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/lore-chrono/tools/chrono-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
