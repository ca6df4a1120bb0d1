package main

import "github.com/Conceptual-Machines/maestro-api/cmd"

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	cmd.Execute(releaseVersion)
}
