// Package main GitPilot Git workflow automation API
//
//	@title			GitPilot API
//	@version		1.0.0
//	@description	GitPilot automates local Git workflows and a handful of GitHub operations
//
//	@contact.name	API Support
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:3000
//	@BasePath		/api/v1
package main

import "github.com/gitpilot/gitpilot/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
