package main

import "github.com/pders01/modeldrift/cmd"

func main() {
	cmd.Execute()
}
