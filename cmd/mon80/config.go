package main

import (
	"flag"
	"fmt"
	"os"
)

// Config defines program configuration.
type Config struct {
	ROM   string  // Path to the monitor ROM image.
	Disks string  // Base directory for storage backing files.
	Clock float64 // Target clock rate in MHz; 0 runs unthrottled.
	Trace bool    // Print an instruction trace while running.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the
// program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.ROM = "rom/monitor.bin"
	c.Disks = "."
	c.Clock = 2.0

	flag.Usage = func() {
		fmt.Printf("%s [options]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.ROM, "rom", c.ROM, "Path to the 4 KiB monitor ROM image.")
	flag.StringVar(&c.Disks, "disks", c.Disks, "Directory holding storage backing files.")
	flag.Float64Var(&c.Clock, "mhz", c.Clock, "Target clock rate in MHz; 0 for unthrottled.")
	flag.BoolVar(&c.Trace, "trace", c.Trace, "Print executed instructions to stderr.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	return &c
}
