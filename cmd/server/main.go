package main

import (
	"github.com/0xGeorgii/interstellar/internal/server"
)

func main() {
	server.Init()
}
