package main

import "github.com/saadjs/macros/cmd/macros"

func main() {
	macros.Execute()
}
