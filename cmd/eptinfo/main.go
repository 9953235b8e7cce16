// Command eptinfo inspects EPT datasets.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "eptinfo:", err)
		os.Exit(1)
	}
}
