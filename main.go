package main

import "github.com/naka-gawa/github-kpi/cmd"

func main() {
	cmd.Execute()
}
