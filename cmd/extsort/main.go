// Package main provides the extsort CLI for sorting large delimited
// files using bounded memory.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
