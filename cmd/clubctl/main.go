// Command clubctl runs maintenance tasks: migrations, administrator creation
// and sample data.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yigit/clubportal/internal/bootstrap"
	"github.com/yigit/clubportal/internal/config"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/pkg/logger"
	"github.com/yigit/clubportal/internal/seed"
)

func main() {
	app := &cli.App{
		Name:  "clubctl",
		Usage: "club portal maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			createAdminCommand(),
			sampleDataCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("clubctl failed")
		os.Exit(1)
	}
}

// env is the loaded configuration with an open, migrated database
type env struct {
	cfg *config.Config
	db  *db.PostgresDB
	log zerolog.Logger
}

func open(c *cli.Context) (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}
	if err := bootstrap.RunMigrations(c.Context, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return &env{cfg: cfg, db: database, log: lgr}, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(c *cli.Context) error {
			e, err := open(c)
			if err != nil {
				return err
			}
			defer e.db.Close()
			fmt.Println("Migrations are up to date")
			return nil
		},
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "create the administrator account if it does not exist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Usage: "overrides admin.username"},
			&cli.StringFlag{Name: "email", Usage: "overrides admin.email"},
			&cli.StringFlag{Name: "password", Usage: "overrides admin.password", EnvVars: []string{"ADMIN_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c)
			if err != nil {
				return err
			}
			defer e.db.Close()

			username := firstNonEmpty(c.String("username"), e.cfg.Admin.Username)
			email := firstNonEmpty(c.String("email"), e.cfg.Admin.Email)
			password := firstNonEmpty(c.String("password"), e.cfg.Admin.Password)
			if password == "" {
				return errors.New("an administrator password is required (--password or ADMIN_PASSWORD)")
			}

			deps, err := bootstrap.BuildDependencies(e.cfg, e.db, nil, e.log)
			if err != nil {
				return err
			}
			account, err := seed.EnsureAdmin(c.Context, deps.AuthService, username, email, password, e.log)
			if err != nil {
				return err
			}
			fmt.Printf("Administrator: %s <%s>\n", account.Username, account.Email)
			return nil
		},
	}
}

func sampleDataCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-sample-data",
		Usage: "register sample clubs, posts and feedback",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "extra", Value: 0, Usage: "number of generated clubs on top of the fixed samples"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed for generated clubs (default: current time)"},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c)
			if err != nil {
				return err
			}
			defer e.db.Close()

			deps, err := bootstrap.BuildDependencies(e.cfg, e.db, nil, e.log)
			if err != nil {
				return err
			}

			admin, err := seed.EnsureAdmin(c.Context, deps.AuthService, e.cfg.Admin.Username, e.cfg.Admin.Email, e.cfg.Admin.Password, e.log)
			if err != nil {
				return err
			}
			if admin == nil {
				fmt.Println("No administrator password configured: clubs stay pending and no admin post is created")
			}

			randSeed := c.Uint64("seed")
			if randSeed == 0 {
				randSeed = uint64(time.Now().UnixNano())
			}

			sum, err := seed.SampleData(c.Context, seed.Services{
				Auth:     deps.AuthService,
				Admin:    deps.AdminService,
				Posts:    deps.PostService,
				Feedback: deps.FeedbackService,
			}, admin, c.Int("extra"), randSeed, e.log)
			if err != nil {
				return err
			}

			fmt.Printf("Clubs created: %d (approved %d, skipped %d), posts: %d, feedback: %d\n",
				sum.Clubs, sum.Approved, sum.Skipped, sum.Posts, sum.Feedback)
			fmt.Printf("Sample club password: %s\n", seed.SamplePassword)
			return nil
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
