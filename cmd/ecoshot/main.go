package main

import "github.com/ecoshot/ecoshot/internal/cli"

func main() {
	cli.Execute()
}
