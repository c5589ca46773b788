package main

import (
	"flag"
	"os"

	"kitportal/platform/logger"
)

func main() {
	var opts options
	flag.StringVar(&opts.path, "kits", "-", "kit list file (.json, .yaml or .yml); - reads JSON from stdin")
	flag.StringVar(&opts.profileID, "profile", "", "profile whose default kits are derived")
	flag.StringVar(&opts.format, "format", "yaml", "output format: yaml or json")
	flag.Parse()

	log := logger.New(os.Getenv("APP_ENV"))
	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		log.Error("kit inspection failed", "error", err)
		os.Exit(1)
	}
}
