package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `fleet-tracking - technician location aggregation service

Usage:
  fleet [flags]

Flags:
  -config-path string   Path to the config yaml file (default "config.yaml")
  -help                 Show this message

Configuration is read from the yaml file and the environment; environment
variables win. See config.Config for the full list of variables.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
