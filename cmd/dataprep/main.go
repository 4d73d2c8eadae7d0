package main

import (
	"log"

	"github.com/ob-flow/dataprep/cmd/dataprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
