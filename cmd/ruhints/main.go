// ruhints annotates Russian HTML texts with hints for dictionary terms.
// Phrases and inflected word forms are matched with stemmed patterns.
package main

import (
	"os"

	"github.com/aden1s/ruphrasehints/cmd/ruhints/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
