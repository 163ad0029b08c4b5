package main

import (
	"os"

	"github.com/idpack-cloud/idc-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
