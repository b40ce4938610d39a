package main

import "shopclock/cmd"

func main() {
	cmd.Execute()
}
