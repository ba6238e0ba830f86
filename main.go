// Package main GitPulse repository statistics API
//
//	@title			GitPulse API
//	@version		1.0.0
//	@description	GitPulse tracks git repositories and computes contributor statistics
//
//	@license.name	MIT
//
//	@host			localhost:3000
//	@BasePath		/api/v1
package main

import "github.com/gitpulse/gitpulse/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
