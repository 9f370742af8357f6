package main

import (
	"fmt"
	"os"

	"kasbot/cmd/export"
	"kasbot/cmd/parse"
	"kasbot/cmd/root"
	"kasbot/cmd/run"
)

func init() {
	root.Cmd.AddCommand(run.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
