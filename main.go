package main

import (
	"github.com/tbestore/storefront/cmd"
)

func main() {
	cmd.Start()
}
