// quefilme API entrypoint.
//
// Запуск:
//
//	quefilme-api                  # то же, что serve
//	quefilme-api serve --config configs/config.yaml
//	quefilme-api config check
//	quefilme-api version
package main

import (
	"fmt"
	"os"
)

// Set via -ldflags "-X main.version=... -X main.buildTime=...".
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
