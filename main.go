package main

import "github.com/marcosfaria19/clarohub-sub000/cmd"

func main() {
	cmd.Execute()
}
