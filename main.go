package main

import "github/gather/report-gateway/cmd"

func main() {
	cmd.Execute()
}
