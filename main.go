package main

import "github.com/mielpeeters/breaker/cmd"

func main() {
	cmd.Execute()
}
