package main

import "callboard/cmd"

func main() {
	cmd.Execute()
}
