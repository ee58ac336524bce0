package main

import "github.com/mlefeuvre/tonearm/cmd"

func main() {
	cmd.Execute()
}
