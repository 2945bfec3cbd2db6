package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/mcml/internal/cli"
	"github.com/lukaszgryglicki/mcml/internal/mcml"
)

func main() {
	mcml.Debug = os.Getenv("DEBUG") != ""
	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := cli.Root.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
