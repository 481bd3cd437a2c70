package main

import "github.com/rwtools/cmd"

func main() {
	cmd.Execute()
}
