package main

import "github.com/deploymenttheory/go-bcd/cmd"

func main() {
	cmd.Execute()
}
