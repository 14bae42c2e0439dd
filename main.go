package main

import "linkmark/cmd"

func main() {
	cmd.Execute()
}
