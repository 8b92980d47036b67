package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("mon80: ")

	config := parseArgs()

	app := NewApp(config)
	if err := app.Run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
