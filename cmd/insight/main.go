package main

import "github.com/aevon-lab/insight/internal/cli"

func main() {
	cli.Execute()
}
