package main

import "github.com/harmondigital/agencyhub/cmd"

func main() {
	cmd.Execute()
}
