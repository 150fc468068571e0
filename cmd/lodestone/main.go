package main

import (
	"os"

	"github.com/hashicorp-forge/lodestone/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
