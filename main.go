package main

import "wavecrate/cmd"

func main() {
	cmd.Execute()
}
