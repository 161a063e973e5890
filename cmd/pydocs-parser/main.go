package main

import "github.com/pfrederiksen/pydocs-parser/internal/cli"

func main() {
	cli.Execute()
}
