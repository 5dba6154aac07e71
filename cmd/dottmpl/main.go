package main

import (
	"github.com/tacogips/dottmpl/internal/cli"
)

func main() {
	// Execute the root command
	cli.Execute()
}
