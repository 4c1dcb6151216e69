// Command easystore manages files on the disks of an easystore configuration.
//
// Usage:
//
//	easystore [--config easystore.yaml] [--disk name] <command> [args]
//
// Configuration is read from the YAML file given with --config, with ${VAR}
// references expanded from the environment (a .env file in the working
// directory is loaded first) and EASYSTORE_* overrides applied last.
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/easystore/cmd/easystore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
