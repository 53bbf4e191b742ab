/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/spy-mission/apiserver/cmd"

func main() {
	cmd.Execute()
}
