package main

import "budgee-analytics/src/cmd"

func main() {
	cmd.Execute()
}
