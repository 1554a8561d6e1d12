package main

import "github.com/Tubbz-alt/DarkRadiant/cmd"

func main() {
	cmd.Execute()
}
