package main

import "github.com/pfrederiksen/qguide/internal/cli"

func main() {
	cli.Execute()
}
