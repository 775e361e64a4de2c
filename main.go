package main

import "code-reconciler/cmd"

func main() {
	cmd.Execute()
}
