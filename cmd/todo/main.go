// Package main provides the todo CLI.
package main

import "github.com/mesh-intelligence/todo/internal/cli"

func main() {
	cli.Execute()
}
