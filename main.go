// Package main is the entry point for the tactics CLI tool, which ingests raw
// football match documents and builds tactical profiles of teams.
package main

import "github.com/pable/go-tactics/cmd"

func main() {
	cmd.Execute()
}
