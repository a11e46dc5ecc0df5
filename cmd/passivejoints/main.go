// Package main is the passivejoints command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/utils"

	"go.viam.com/stewart/cli"
	"go.viam.com/stewart/logging"
)

func main() {
	logger := logging.NewLogger("passivejoints")
	defer utils.UncheckedErrorFunc(logger.Sync)
	logging.ReplaceGlobal(logger)

	app := cli.NewApp(os.Stdout, os.Stderr, logger)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
