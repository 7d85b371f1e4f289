package main

import "auralife/cmd/aura/root"

func main() {
	root.Execute()
}
