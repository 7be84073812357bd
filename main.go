package main

import "github.com/HaiFongPan/fsb-cli/cmd"

func main() {
	cmd.Execute()
}
