package main

import "github.com/satriautama/attendance-management/cmd"

func main() {
	cmd.Execute()
}
