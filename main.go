package main

import "myfind/cmd"

func main() {
	cmd.Execute()
}
