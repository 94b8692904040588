package main

import (
	"os"

	txtracker "github.com/0xPolygonHermez/zkevm-tx-tracker"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/config"
	"github.com/urfave/cli/v2"
)

const appName = "zkevm-tx-tracker"

var (
	configFileFlag = cli.StringFlag{
		Name:     config.FlagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration `FILE`",
		Required: false,
	}
	migrationsFlag = cli.BoolFlag{
		Name:     config.FlagNoMigrations,
		Aliases:  []string{"n"},
		Usage:    "Disable run migrations in state database",
		Required: false,
	}
	outputFlag = cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "Write the schema to `FILE` instead of stdout",
		Required: false,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "zkEVM transaction activity tracker"
	app.Version = txtracker.Version
	flags := []cli.Flag{&configFileFlag}
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the zkEVM tx tracker",
			Action:  start,
			Flags:   append(flags, &migrationsFlag),
		},
		{
			Name:    "config-schema",
			Aliases: []string{},
			Usage:   "Print the JSON schema of the configuration file",
			Action:  configSchemaCmd,
			Flags:   []cli.Flag{&outputFlag},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		println()
		println("ERROR:", err.Error())
		os.Exit(1)
	}
}

func versionCmd(*cli.Context) error {
	txtracker.PrintVersion(os.Stdout)
	return nil
}
