package main

import "tempowise/internal/cli"

func main() {
	cli.Execute()
}
