package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "sportcomm-lottery"
	app.Usage = ""
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serve the lottery HTTP API.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start service cron",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Run the lottery round scheduler.`,
		},
		{
			Action: server.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "The migration version to run",
					Value: "auto",
				},
			},
			Category:    "Database",
			Description: `Apply a database migration.`,
		},
	}

	s.app = app
}
