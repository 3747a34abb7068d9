package main

import "github.com/chris/gdpdash/cmd"

func main() {
	cmd.Execute()
}
