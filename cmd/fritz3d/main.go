package main

import "github.com/fritzlab/fritz3d/cmd/fritz3d/cmd"

func main() {
	cmd.Execute()
}
