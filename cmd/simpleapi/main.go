package main

import "github.com/andrescamacho/simplemediator-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
