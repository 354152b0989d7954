package main

import "threadwatch/cmd"

func main() {
	cmd.Execute()
}
