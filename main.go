package main

import "github.com/theirongolddev/optiview/cmd"

func main() {
	cmd.Execute()
}
