package main

import "github.com/Digital-Shane/rlz-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
