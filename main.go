package main

import "scale-sync/cmd"

func main() {
	cmd.Execute()
}
