package main

import "paywall-app/internal/app/cli"

func main() {
	cli.Execute()
}
