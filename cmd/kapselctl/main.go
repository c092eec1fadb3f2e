package main

import (
	"os"

	_ "kapsel/cmd/ctl"
	"kapsel/cmd/ctl/root"
	"kapsel/internal/logger"
)

func main() {
	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
