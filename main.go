package main

import "github.com/haven-app/haven/cmd"

func main() {
	cmd.Execute()
}
