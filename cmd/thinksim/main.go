package main

import "github.com/kvr06-ai/hf-ai-thinking-sim/internal/cli"

func main() {
	cli.Execute()
}
