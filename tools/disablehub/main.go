// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// disablehub is the teardown counterpart to the sweep: it disables every
// enabled Security Hub standard in every account and region of the
// organization. The sweep itself never disables anything, so this stays an
// operator command run from the management account.
package main

import (
	"context"
	"fmt"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/org-setup/org-setup/internal/awsconf"
	"github.com/org-setup/org-setup/internal/config"
	"github.com/org-setup/org-setup/internal/log"
	"github.com/org-setup/org-setup/internal/resources"
	"github.com/org-setup/org-setup/internal/version"
)

// accountWorkers bounds concurrent account/region teardowns.
const accountWorkers = 10

func main() {
	log.InitLogger()
	os.Exit(realMain())
}

func realMain() int {
	app := &cli.Command{
		Name:    "disablehub",
		Usage:   "Disable Security Hub standards across the organization",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "management account AWS profile",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "execution role to assume in member accounts",
				Value: "AWSControlTowerExecution",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file (role and regions)",
			},
			&cli.StringSliceFlag{
				Name:  "region",
				Usage: "regions to tear down (default: all opt-in-not-required regions)",
			},
		},
		Action: disableAction,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func disableAction(ctx context.Context, cmd *cli.Command) error {
	roleName := cmd.String("role")
	regions := cmd.StringSlice("region")
	if path := cmd.String("config"); path != "" {
		settings, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		if settings.ExecutionRoleName != "" {
			roleName = settings.ExecutionRoleName
		}
		if len(regions) == 0 {
			regions = settings.Regions
		}
	}

	var opts []awsconf.Option
	if profile := cmd.String("profile"); profile != "" {
		opts = append(opts, awsconf.WithProfile(profile))
	}
	cfg, err := awsconf.Load(ctx, opts...)
	if err != nil {
		return err
	}

	currentAccountID, err := resources.NewSTS(cfg).CallerAccountID(ctx)
	if err != nil {
		return err
	}

	accounts, err := resources.NewOrganizations(cfg).ListAccounts(ctx)
	if err != nil {
		return err
	}

	if len(regions) == 0 {
		regions, err = resources.NewEC2(cfg, cfg.Region).Regions(ctx)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Disabling Security Hub standards in %d accounts and %d regions\n", len(accounts), len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(accountWorkers)
	for _, account := range accounts {
		accountCfg := cfg
		if account.ID != currentAccountID {
			accountCfg = awsconf.AssumeRole(cfg, account.ID, roleName, "disablehub")
		}
		for _, region := range regions {
			g.Go(func() error {
				return disableStandards(gctx, accountCfg, account.ID, region)
			})
		}
	}
	return g.Wait()
}

func disableStandards(ctx context.Context, cfg awsv2.Config, accountID, region string) error {
	n, err := resources.NewStandards(cfg, region).DisableAll(ctx)
	if err != nil {
		return fmt.Errorf("[%s] account %s: %w", region, accountID, err)
	}
	if n == 0 {
		log.Debugf("[%s] no enabled standards in account %s", region, accountID)
		return nil
	}
	fmt.Printf("Disabled %d standards in %s %s\n", n, accountID, region)
	return nil
}
