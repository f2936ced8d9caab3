package main

import (
	"github.com/jswain/turfsplit/internal/cli"
)

func main() {
	cli.Execute()
}
