package main

import "github.com/veridoc-dev/veridoc/internal/cli"

func main() {
	cli.Execute()
}
