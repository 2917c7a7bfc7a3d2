package main

import "github.com/strrl/lain/cmd/lain/commands"

func main() {
	commands.Execute()
}
