package main

import "clip-remix/cmd"

func main() {
	cmd.Execute()
}
