package main

import "github.com/pfrederiksen/event-schedule/internal/cli"

func main() {
	cli.Execute()
}
