package main

import "github.com/procpulse/procpulse/internal/cli"

func main() {
	cli.Execute()
}
