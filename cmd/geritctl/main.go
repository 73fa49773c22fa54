package main

import "os"

func main() {
	if err := newRootCmd(openConsole).Execute(); err != nil {
		os.Exit(1)
	}
}
