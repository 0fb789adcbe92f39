package main

import "github.com/Manu343726/dwarfkit/cmd"

func main() {
	cmd.Execute()
}
