// Package main is the entry point for the pmq CLI.
package main

import "github.com/taskchain/pmq/internal/cli"

func main() {
	cli.Execute()
}
