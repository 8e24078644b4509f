package main

import (
	"github.com/creditscope/creditscope/cmd"
)

func main() {
	cmd.Execute()
}
