package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var historyCommand = cli.Command{
	Action: history,
	Name:   "history",
	Usage:  "lists imported blocks, most recent first",
}

func history(ctx *cli.Context) (err error) {
	env, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer env.close(&err)

	if err := env.blocks.VerifyImportLog(); err != nil {
		return err
	}
	records, err := env.blocks.Imported()
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(ctx.App.Writer, "%d\t%s\n", r.Number, r.Hash.Hex())
	}
	return nil
}
