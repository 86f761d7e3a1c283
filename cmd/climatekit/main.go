package main

import "github.com/okian/climatekit/cmd/climatekit/commands"

func main() {
	commands.Execute()
}
