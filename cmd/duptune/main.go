package main

import "github.com/audiodup/audiodup/cmd/duptune/internal/cmd"

func main() {
	cmd.Execute()
}
