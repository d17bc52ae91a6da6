package main

import "github.com/bethropolis/dir-scanner/internal/cli"

func main() {
	cli.Execute()
}
