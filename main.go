package main

import "github.com/Alturino/grocery/cmd"

func main() {
	cmd.Start()
}
