package main

import (
	"github.com/docsight/docsight/cmd/docsight/cmd"
)

func main() {
	cmd.Execute()
}
