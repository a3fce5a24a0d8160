package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "framectl",
		HelpName: "framectl",
		Usage:    "Check, import and inspect blocks over typed trie storage",
		Flags: []cli.Flag{
			&configFlag,
		},
		Commands: []*cli.Command{
			&checkBlockCommand,
			&importBlocksCommand,
			&inspectCommand,
			&historyCommand,
		},
	}
}
