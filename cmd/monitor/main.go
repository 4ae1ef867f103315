package main

import (
	_ "time/tzdata"

	"github.com/StaryMuz/elektrina-monitor/internal/cli"
)

func main() {
	cli.Execute()
}
