package main

import "github.com/vietddude/bitcoin-adapter/internal/cli"

func main() {
	cli.Execute()
}
