package main

import "github.com/alexiusacademia/ifcfem/cmd"

func main() {
	cmd.Execute()
}
