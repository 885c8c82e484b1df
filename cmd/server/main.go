package main

import (
	_ "github.com/eleven-am/mesh-router/docs"
	"github.com/eleven-am/mesh-router/internal/bootstrap"
)

// @title Mesh Router API
// @version 1.0.0
// @description Capability-aware workload routing across a self-reported agent mesh

// @BasePath /v1

func main() {
	bootstrap.Run()
}
