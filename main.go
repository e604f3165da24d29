package main

import (
	"os"

	"hackathon-badges/cmd"
)

func main() {
	cmd.Run(os.Args[1:])
}
