// Package main is the entry point of the student helper chatbot.
//
// The default command opens an interactive chat in the terminal. The same
// process polls reminders in the background and, when enabled, serves a
// read-only status API. Subcommands print the stored record, list feature
// flags and follow reminder alerts published on Redis.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
