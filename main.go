package main

import "github.com/KaramelBytes/nearabl-cli/cmd"

func main() {
	cmd.Execute()
}
