package main

import (
	"flag"
	"fmt"
	"os"

	"snaplogd/internal/di"
	"snaplogd/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	debug := flag.Bool("debug", false, "log to the console in addition to log files")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "snaplogd: %s\n", err)
		os.Exit(1)
	}
}
