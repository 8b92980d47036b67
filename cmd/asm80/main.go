package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/hexaflex/mon80/asm"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("asm80: ")

	flag.Usage = func() {
		fmt.Printf("%s [options] <input.asm> [output.bin]\n", os.Args[0])
		flag.PrintDefaults()
	}

	listing := flag.Bool("symbols", false, "Print the symbol table after assembly.")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	input := flag.Arg(0)
	output := flag.Arg(1)
	if output == "" {
		output = strings.TrimSuffix(input, ".asm") + ".bin"
	}

	a := asm.New()
	if err := a.AssembleFile(input, output); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	log.Println("wrote", output)

	if *listing {
		printSymbols(a.Symbols())
	}
}

// printSymbols writes the symbol table to stdout, sorted by address.
func printSymbols(symbols map[string]uint16) {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return symbols[names[i]] < symbols[names[j]]
	})

	for _, name := range names {
		fmt.Printf("  %-20s = %04Xh\n", name, symbols[name])
	}
}
