package main

import "github.com/rcampos/vendahub/cmd"

func main() {
	cmd.Execute()
}
