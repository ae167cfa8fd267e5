package main

import (
	"flag"
	"fmt"
	"os"

	"hangovr/internal/di"
	"hangovr/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "mirror logs to the console at debug level")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hangovr: %s\n", err)
		os.Exit(1)
	}
}
