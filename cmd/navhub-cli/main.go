package main

import "navhub/cmd/navhub-cli/cmd"

func main() {
	cmd.Execute()
}
