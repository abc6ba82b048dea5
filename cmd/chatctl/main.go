package main

import (
	"github.com/sala-livre/batepapo/internal/cli"
)

func main() {
	cli.Execute()
}
