// Command termsense probes, inspects, records and replays terminal input
// through the reply correlator
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styleError.Render("error:"), err)
		os.Exit(1)
	}
}
