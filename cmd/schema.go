package main

import (
	"encoding/json"
	"os"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/config"
	"github.com/urfave/cli/v2"
)

func configSchemaCmd(cliCtx *cli.Context) error {
	b, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if path := cliCtx.String(outputFlag.Name); path != "" {
		return os.WriteFile(path, b, 0o644) //nolint:gosec
	}
	_, err = os.Stdout.Write(b)
	return err
}
