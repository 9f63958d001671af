package main

import "github.com/frahmantamala/peer-recognition/cmd"

func main() {
	cmd.Execute()
}
