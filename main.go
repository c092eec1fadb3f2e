package main

import (
	"os"

	"kapsel/cmd/root"
)

func main() {
	os.Exit(root.Execute())
}
