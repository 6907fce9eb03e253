package main

import "bitebuddy-backend/internal/cmd"

func main() {
	cmd.Execute()
}
