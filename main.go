package main

import "github.com/strongdm/leash-release/cmd"

func main() {
	cmd.Execute()
}
