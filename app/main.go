package main

import "github.com/roach88/journey/app/cmd"

func main() {
	cmd.Execute()
}
