package main

import "os"

func main() {
	if err := newRootCmd(defaultAppFactory).Execute(); err != nil {
		os.Exit(1)
	}
}
