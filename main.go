package main

import (
	"context"
	"os"

	"github.com/kozaktomas/card-generator/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
