// Command fma resolves file-manager context-menu requests against a
// configured set of storage providers: config -> providers -> repository
// -> cli.
package main

import (
	"fmt"
	"os"

	"github.com/fma-project/fma-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
