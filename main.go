package main

import "github.com/Tiliavir/keeper/cmd"

func main() {
	cmd.Execute()
}
