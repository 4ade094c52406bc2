package main

import "github.com/RasheedLewis/VibeCraft-sub006/internal/cli"

func main() {
	cli.Main()
}
