package main

import "github.com/docpack/docpack/cmd"

func main() {
	cmd.Execute()
}
