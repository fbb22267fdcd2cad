package main

import "github.com/jfmyers9/toptracks/cmd"

func main() {
	cmd.Execute()
}
