package main

import "github.com/forPelevin/scenecast/internal/cli"

func main() {
	cli.Main()
}
