package main

import "vaultsearch/internal/cli"

func main() {
	cli.Execute()
}
