package main

import "bookboo/cmd/cli/command"

func main() {
	command.Execute()
}
