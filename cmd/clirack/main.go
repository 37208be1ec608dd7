package main

import (
	"github.com/clirack/clirack/pkg/cmd"
)

func main() {
	cmd.Execute()
}
