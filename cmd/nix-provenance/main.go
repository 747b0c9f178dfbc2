package main

import (
	"github.com/skybuild/nix-provenance/cmd/nix-provenance/commands"
)

func main() {
	commands.Execute()
}
