package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{}
	a.openService = a.openConfiguredService
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
