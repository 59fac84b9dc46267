package main

import (
	"os"

	"github.com/soundprediction/patternbase/cmd/patternbase"
)

func main() {
	if err := patternbase.Execute(); err != nil {
		os.Exit(1)
	}
}
