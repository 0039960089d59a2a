package main

import "github.com/ValentinKolb/kvsolar/cmd"

func main() {
	cmd.Execute()
}
