package main

import "github.com/rustyeddy/tradegym/internal/cli"

func main() {
	cli.Execute()
}
