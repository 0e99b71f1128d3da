package main

import "github.com/AngelCh415/attributely-go/internal/cli"

func main() {
	cli.Execute()
}
