/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/logan/cmd/logan/cmd"

func main() {
	cmd.Execute()
}
