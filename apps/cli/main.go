package main

import "github.com/abdul-hamid-achik/fspec/apps/cli/cmd"

// Set at build time:
//
//	go build -ldflags "-X main.version=1.2.3 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
