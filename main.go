package main

import "github.com/shibudb-org/shibudb-clients/cmd"

func main() {
	cmd.Execute()
}
