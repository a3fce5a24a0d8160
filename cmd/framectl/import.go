package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"framestore/chain"
)

var (
	fileFlag = cli.StringFlag{
		Name:     "file",
		Usage:    "YAML file listing the blocks to import",
		Required: true,
	}
	verifyFlag = cli.BoolFlag{
		Name:  "verify",
		Usage: "re-check every imported block after importing",
	}
)

var importBlocksCommand = cli.Command{
	Action: importBlocks,
	Name:   "import-blocks",
	Usage:  "executes fixture blocks on top of the best block and stores them",
	Flags: []cli.Flag{
		&fileFlag,
		&verifyFlag,
	},
}

func importBlocks(ctx *cli.Context) (err error) {
	env, err := open(ctx)
	if err != nil {
		return err
	}
	defer env.close(&err)

	hashes, err := chain.NewImporter(env.blocks, env.tries, env.logger).ImportFile(ctx.Context, ctx.String(fileFlag.Name))
	if err != nil {
		return inputError(err)
	}
	for _, h := range hashes {
		fmt.Fprintln(ctx.App.Writer, h.Hex())
	}
	if !ctx.Bool(verifyFlag.Name) {
		return nil
	}
	checker := chain.NewChecker(env.blocks, env.tries, env.logger)
	for _, h := range hashes {
		if _, err := checker.Check(ctx.Context, chain.HashID(h)); err != nil {
			return err
		}
	}
	return nil
}
