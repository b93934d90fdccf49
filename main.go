package main

import "github.com/sheetmind/sheetmind/cmd"

func main() {
	cmd.Execute()
}
