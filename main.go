package main

import "spotify-curator/cmd"

func main() {
	cmd.Execute()
}
