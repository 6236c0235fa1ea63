package main

import "github.com/maxvaer/rake/cmd"

func main() {
	cmd.Execute()
}
