package main

import "github.com/opsboard/gatekeeper/cmd"

func main() {
	cmd.Execute()
}
