// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package setup

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"golang.org/x/sync/errgroup"

	"github.com/org-setup/org-setup/internal/awsconf"
	"github.com/org-setup/org-setup/internal/config"
	"github.com/org-setup/org-setup/internal/log"
	"github.com/org-setup/org-setup/internal/resources"
)

// regionWorkers bounds how many regions are configured at once. The
// control-plane APIs throttle aggressively; five keeps the sweep inside
// their limits.
const regionWorkers = 5

// sessionName identifies the sweep's assumed-role sessions in CloudTrail.
const sessionName = "OrganizationSetup"

// The sweep drives each service through the narrow interfaces below. The
// resources wrappers satisfy them; fakes stand in for tests.

type organizationsClient interface {
	Describe(ctx context.Context) (*orgtypes.Organization, error)
	EnableAllFeatures(ctx context.Context) error
	EnableAllPolicyTypes(ctx context.Context) error
	AttachAIOptOutPolicy(ctx context.Context) error
	EnableServiceAccess(ctx context.Context) error
	RegisterDelegatedAdministrators(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context) ([]resources.Account, error)
	AccountID(ctx context.Context, name string) (string, error)
}

type regionLister interface {
	Regions(ctx context.Context) ([]string, error)
}

type securityHubClient interface {
	EnableOrganizationAdminAccount(ctx context.Context, accountID string) error
	UpdateOrganizationConfiguration(ctx context.Context) error
	CreateMembers(ctx context.Context, accounts []resources.Account) error
	EnsureFindingAggregator(ctx context.Context) error
}

type guardDutyClient interface {
	EnableOrganizationAdminAccount(ctx context.Context, accountID string) error
	EnsureDetectors(ctx context.Context) ([]string, error)
	UpdateOrganizationConfiguration(ctx context.Context, detectorIDs []string) error
	CreateMembers(ctx context.Context, detectorIDs []string, accounts []resources.Account) error
}

type macieClient interface {
	Enable(ctx context.Context) error
	EnableOrganizationAdminAccount(ctx context.Context, accountID string) error
	UpdateOrganizationConfiguration(ctx context.Context) error
	CreateMembers(ctx context.Context, accounts []resources.Account) error
}

type accessAnalyzerClient interface {
	CreateOrganizationAnalyzer(ctx context.Context) error
	CreateManagementAnalyzer(ctx context.Context) error
}

type serviceCatalogClient interface {
	EnableOrganizationsAccess(ctx context.Context) error
}

type cloudFormationClient interface {
	ActivateOrganizationsAccess(ctx context.Context) error
}

type ramClient interface {
	EnableSharingWithOrganization(ctx context.Context) error
}

type fmsClient interface {
	AssociateAdminAccount(ctx context.Context, accountID string) error
}

type detectiveClient interface {
	EnableOrganizationAdminAccount(ctx context.Context, accountID string) error
}

type securityLakeClient interface {
	RegisterDelegatedAdministrator(ctx context.Context, accountID string) error
}

type inspectorClient interface {
	EnableDelegatedAdminAccount(ctx context.Context, accountID string) error
}

type auditManagerClient interface {
	RegisterOrganizationAdminAccount(ctx context.Context, accountID string) error
}

// clients builds the service wrappers the sweep drives. New binds the real
// constructors.
type clients struct {
	organizations  func(cfg awsv2.Config) organizationsClient
	ec2            func(cfg awsv2.Config, region string) regionLister
	serviceCatalog func(cfg awsv2.Config, region string) serviceCatalogClient
	cloudFormation func(cfg awsv2.Config, region string) cloudFormationClient
	ram            func(cfg awsv2.Config, region string) ramClient
	securityHub    func(cfg awsv2.Config, region string) securityHubClient
	guardDuty      func(cfg awsv2.Config, region string) guardDutyClient
	macie          func(cfg awsv2.Config, region string) macieClient
	fms            func(cfg awsv2.Config, region string) fmsClient
	detective      func(cfg awsv2.Config, region string) detectiveClient
	securityLake   func(cfg awsv2.Config, region string) securityLakeClient
	inspector      func(cfg awsv2.Config, region string) inspectorClient
	auditManager   func(cfg awsv2.Config, region string) auditManagerClient
	accessAnalyzer func(cfg awsv2.Config, region string) accessAnalyzerClient
	assumeRole     func(cfg awsv2.Config, accountID, roleName, sessionName string) awsv2.Config
}

func defaultClients() clients {
	return clients{
		organizations:  func(cfg awsv2.Config) organizationsClient { return resources.NewOrganizations(cfg) },
		ec2:            func(cfg awsv2.Config, region string) regionLister { return resources.NewEC2(cfg, region) },
		serviceCatalog: func(cfg awsv2.Config, region string) serviceCatalogClient { return resources.NewServiceCatalog(cfg, region) },
		cloudFormation: func(cfg awsv2.Config, region string) cloudFormationClient { return resources.NewCloudFormation(cfg, region) },
		ram:            func(cfg awsv2.Config, region string) ramClient { return resources.NewRAM(cfg, region) },
		securityHub:    func(cfg awsv2.Config, region string) securityHubClient { return resources.NewSecurityHub(cfg, region) },
		guardDuty:      func(cfg awsv2.Config, region string) guardDutyClient { return resources.NewGuardDuty(cfg, region) },
		macie:          func(cfg awsv2.Config, region string) macieClient { return resources.NewMacie(cfg, region) },
		fms:            func(cfg awsv2.Config, region string) fmsClient { return resources.NewFMS(cfg, region) },
		detective:      func(cfg awsv2.Config, region string) detectiveClient { return resources.NewDetective(cfg, region) },
		securityLake:   func(cfg awsv2.Config, region string) securityLakeClient { return resources.NewSecurityLake(cfg, region) },
		inspector:      func(cfg awsv2.Config, region string) inspectorClient { return resources.NewInspector(cfg, region) },
		auditManager:   func(cfg awsv2.Config, region string) auditManagerClient { return resources.NewAuditManager(cfg, region) },
		accessAnalyzer: func(cfg awsv2.Config, region string) accessAnalyzerClient { return resources.NewAccessAnalyzer(cfg, region) },
		assumeRole:     awsconf.AssumeRole,
	}
}

// Orchestrator drives the sweep with management-account credentials and a
// derived delegated-administrator config for the cross-account calls.
type Orchestrator struct {
	cfg      awsv2.Config
	settings config.Settings
	clients  clients
}

// New returns an Orchestrator using cfg as the management-account
// credentials.
func New(cfg awsv2.Config, settings config.Settings) *Orchestrator {
	return &Orchestrator{cfg: cfg, settings: settings, clients: defaultClients()}
}

// Setup performs the full sweep. adminAccountID may be empty, in which case
// the administrator account is resolved by name from the organization's
// account list. primaryRegion is where Security Hub findings aggregate.
func (o *Orchestrator) Setup(ctx context.Context, primaryRegion, adminAccountID string) error {
	org := o.clients.organizations(o.cfg)

	orgInfo, err := org.Describe(ctx)
	if err != nil {
		return err
	}

	regions := o.settings.Regions
	if len(regions) == 0 {
		regions, err = o.clients.ec2(o.cfg, primaryRegion).Regions(ctx)
		if err != nil {
			return err
		}
	}
	log.Infof("configuring organization %s in regions %v", awsv2.ToString(orgInfo.Id), regions)

	if err := org.EnableAllFeatures(ctx); err != nil {
		return err
	}
	if err := org.EnableAllPolicyTypes(ctx); err != nil {
		return err
	}
	if o.settings.EnableAIOptOutPolicy {
		if err := org.AttachAIOptOutPolicy(ctx); err != nil {
			return err
		}
	}
	if err := org.EnableServiceAccess(ctx); err != nil {
		return err
	}

	adminAccountID, err = resolveAdministrator(ctx, org, o.settings.AdministratorAccountName, adminAccountID)
	if err != nil {
		return err
	}

	if err := org.RegisterDelegatedAdministrators(ctx, adminAccountID); err != nil {
		return err
	}

	accounts, err := org.ListAccounts(ctx)
	if err != nil {
		return err
	}

	delegated := o.clients.assumeRole(o.cfg, adminAccountID, o.settings.ExecutionRoleName, sessionName)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(regionWorkers)
	for _, region := range regions {
		g.Go(func() error {
			if err := o.setupRegion(gctx, delegated, region, adminAccountID, accounts); err != nil {
				return fmt.Errorf("[%s] %w", region, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Aggregate findings into the home region once every region has its
	// Security Hub configured.
	return o.clients.securityHub(delegated, primaryRegion).EnsureFindingAggregator(ctx)
}

// setupRegion runs the per-region checklist. Management-credential calls
// delegate administration; delegated-credential calls configure the services
// inside the administrator account.
func (o *Orchestrator) setupRegion(ctx context.Context, delegated awsv2.Config, region, adminAccountID string, accounts []resources.Account) error {
	if err := o.clients.serviceCatalog(o.cfg, region).EnableOrganizationsAccess(ctx); err != nil {
		return err
	}
	if err := o.clients.cloudFormation(o.cfg, region).ActivateOrganizationsAccess(ctx); err != nil {
		return err
	}
	if err := o.clients.ram(o.cfg, region).EnableSharingWithOrganization(ctx); err != nil {
		return err
	}

	if err := o.clients.securityHub(o.cfg, region).EnableOrganizationAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}
	hub := o.clients.securityHub(delegated, region)
	if err := hub.UpdateOrganizationConfiguration(ctx); err != nil {
		return err
	}
	if err := hub.CreateMembers(ctx, accounts); err != nil {
		return err
	}

	if err := o.clients.guardDuty(o.cfg, region).EnableOrganizationAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}
	gd := o.clients.guardDuty(delegated, region)
	detectorIDs, err := gd.EnsureDetectors(ctx)
	if err != nil {
		return err
	}
	if err := gd.UpdateOrganizationConfiguration(ctx, detectorIDs); err != nil {
		return err
	}
	if err := gd.CreateMembers(ctx, detectorIDs, accounts); err != nil {
		return err
	}

	macie := o.clients.macie(o.cfg, region)
	if err := macie.Enable(ctx); err != nil {
		return err
	}
	if err := macie.EnableOrganizationAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}
	adminMacie := o.clients.macie(delegated, region)
	if err := adminMacie.Enable(ctx); err != nil {
		return err
	}
	if err := adminMacie.UpdateOrganizationConfiguration(ctx); err != nil {
		return err
	}
	if err := adminMacie.CreateMembers(ctx, accounts); err != nil {
		return err
	}

	if err := o.clients.fms(o.cfg, region).AssociateAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}
	if o.settings.EnableDetective {
		if err := o.clients.detective(o.cfg, region).EnableOrganizationAdminAccount(ctx, adminAccountID); err != nil {
			return err
		}
	}
	if err := o.clients.securityLake(o.cfg, region).RegisterDelegatedAdministrator(ctx, adminAccountID); err != nil {
		return err
	}
	if err := o.clients.inspector(o.cfg, region).EnableDelegatedAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}
	if err := o.clients.auditManager(o.cfg, region).RegisterOrganizationAdminAccount(ctx, adminAccountID); err != nil {
		return err
	}

	if err := o.clients.accessAnalyzer(delegated, region).CreateOrganizationAnalyzer(ctx); err != nil {
		return err
	}
	return o.clients.accessAnalyzer(o.cfg, region).CreateManagementAnalyzer(ctx)
}

// accountResolver resolves an account name to its ID.
type accountResolver interface {
	AccountID(ctx context.Context, name string) (string, error)
}

// resolveAdministrator returns the administrator account ID, preferring the
// one the lifecycle event carried. A name that resolves to nothing is a hard
// error; delegating to a guessed account must never happen.
func resolveAdministrator(ctx context.Context, r accountResolver, name, fromEvent string) (string, error) {
	if fromEvent != "" {
		return fromEvent, nil
	}
	id, err := r.AccountID(ctx, name)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("administrator account %q not found", name)
	}
	return id, nil
}
