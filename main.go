package main

import "github.com/jfmyers9/play/cmd"

func main() {
	cmd.Execute()
}
