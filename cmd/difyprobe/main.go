package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/keyishen/difyprobe/config"
	"github.com/keyishen/difyprobe/dify"
	"github.com/keyishen/difyprobe/input"
	"github.com/keyishen/difyprobe/registry"
	"github.com/keyishen/difyprobe/render"
	"github.com/keyishen/difyprobe/repl"
)

func main() {
	configFlag := flag.String("config", "", "Path to the primary agent config file")
	config2Flag := flag.String("config2", "", "Path to a secondary agent config file")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving working directory: %+v\n", err)
		os.Exit(1)
	}

	paths, err := config.Discover(wd, *configFlag, *config2Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering configuration: %+v\n", err)
		os.Exit(1)
	}

	reg := registry.New()
	for _, path := range paths {
		profile, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %+v\n", err)
			os.Exit(1)
		}
		reg.Register(path, profile)
		fmt.Printf("Loaded %s\n", path)
	}
	if reg.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no agent configurations loaded")
		os.Exit(1)
	}

	fmt.Println("\n" + render.Profiles(reg) + "\n")

	reader := input.NewPromptReader()
	defer reader.Close()

	r := repl.New(reg, reader, dify.NewClient(), os.Stdout)
	if err := r.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Session stopped with an error: %+v\n", err)
		os.Exit(1)
	}
}
