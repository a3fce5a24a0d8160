package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"framestore/chain"
)

var checkBlockCommand = cli.Command{
	Action:    checkBlock,
	Name:      "check-block",
	Usage:     "re-executes a stored block and verifies its state root",
	ArgsUsage: "<HASH or NUMBER>",
}

func checkBlock(ctx *cli.Context) (err error) {
	if ctx.NArg() != 1 {
		return cli.Exit("check-block expects exactly one block hash or number", 2)
	}
	id, err := chain.ParseBlockID(ctx.Args().First())
	if err != nil {
		return inputError(err)
	}
	env, err := openExisting(ctx)
	if err != nil {
		return err
	}
	defer env.close(&err)

	start := time.Now()
	if _, err := chain.NewChecker(env.blocks, env.tries, env.logger).Check(ctx.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Completed in %d ms.\n", time.Since(start).Milliseconds())
	return nil
}
