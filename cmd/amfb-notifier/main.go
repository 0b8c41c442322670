package main

import "github.com/amfb-notifier/amfb-notifier/internal/cli"

func main() {
	cli.Execute()
}
