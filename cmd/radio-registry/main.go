package main

import "github.com/atcvoice/radio-registry/cmd/radio-registry/cmd"

var version string // set by the compiler

func main() {
	cmd.Execute(version)
}
