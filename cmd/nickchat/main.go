package main

import "github.com/mcoot/nickchat/internal/cli"

func main() {
	cli.Execute()
}
