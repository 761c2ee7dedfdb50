package main

import "github.com/theirongolddev/custform/cmd"

func main() {
	cmd.Execute()
}
