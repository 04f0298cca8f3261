package main

import "github.com/goblinsan/issue-materializer/cmd/issue-materializer/commands"

func main() {
	commands.Execute()
}
