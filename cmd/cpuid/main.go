package main

import (
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"cpuid/internal/cli"
	"cpuid/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		os.Exit(1)
	})

	if os.Getenv("CPUID_PROFILE") != "" {
		lg := logging.NewLogger()
		go func() {
			lg.Info("Serving pprof at localhost:6060")
			if httpErr := http.ListenAndServe("localhost:6060", nil); httpErr != nil {
				lg.Error("Failed to pprof listen", "error", httpErr)
			}
		}()
	}

	cli.Execute()
}
