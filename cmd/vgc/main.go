package main

import "github.com/frankiebaffa/vg/internal/cli"

func main() {
	cli.ExecuteVGC()
}
