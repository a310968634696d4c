package main

import "github.com/marshallshelly/reelstore/cmd/reelstore/commands"

func main() {
	commands.Execute()
}
