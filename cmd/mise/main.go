package main

import "github.com/alimon-app/mise/cmd/mise/commands"

func main() {
	commands.Execute()
}
