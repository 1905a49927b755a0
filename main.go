package main

import (
	"github.com/sw33tLie/lctracker/cmd"
)

func main() {
	cmd.Execute()
}
