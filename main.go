package main

import "github.com/samsaffron/prqldoc/cmd"

func main() {
	cmd.Execute()
}
