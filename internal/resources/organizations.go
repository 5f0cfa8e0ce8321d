// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/org-setup/org-setup/internal/log"
)

// organizationsRegion is the only region the Organizations API is served
// from.
const organizationsRegion = "us-east-1"

// accountsPageSize keeps ListAccounts pages small; large organizations
// otherwise time out a page on throttled retries.
const accountsPageSize = 20

// aiOptOutPolicyName is the managed name of the organization-wide AI services
// opt-out policy.
const aiOptOutPolicyName = "AllOptOutPolicy"

// aiOptOutPolicy opts every account out of all AI service data collection and
// forbids child policies from overriding it.
// https://docs.aws.amazon.com/organizations/latest/userguide/orgs_manage_policies_ai-opt-out_syntax.html
const aiOptOutPolicy = `{
  "services": {
    "@@operators_allowed_for_child_policies": ["@@none"],
    "default": {
      "@@operators_allowed_for_child_policies": ["@@none"],
      "opt_out_policy": {
        "@@operators_allowed_for_child_policies": ["@@none"],
        "@@assign": "optOut"
      }
    }
  }
}`

// serviceAccessPrincipals are the service principals granted trusted access
// to the organization.
var serviceAccessPrincipals = []string{
	"backup.amazonaws.com",
	"config.amazonaws.com",
	"config-multiaccountsetup.amazonaws.com",
	"detective.amazonaws.com",
	"guardduty.amazonaws.com",
	"inspector2.amazonaws.com",
	"malware-protection.guardduty.amazonaws.com",
	"macie.amazonaws.com",
	"securityhub.amazonaws.com",
	"securitylake.amazonaws.com",
}

// delegatedAdministratorPrincipals are the service principals the
// administrator account is registered as a delegated administrator for.
var delegatedAdministratorPrincipals = []string{
	"access-analyzer.amazonaws.com",
	"config-multiaccountsetup.amazonaws.com",
	"detective.amazonaws.com",
	"guardduty.amazonaws.com",
	"inspector2.amazonaws.com",
	"macie.amazonaws.com",
	"securityhub.amazonaws.com",
	"securitylake.amazonaws.com",
	"storage-lens.s3.amazonaws.com",
}

// ErrOrganizationNotFound indicates the caller account is not part of an
// organization.
var ErrOrganizationNotFound = errors.New("account is not part of an organization")

// OrganizationsAPI is the subset of the Organizations client the sweep uses.
type OrganizationsAPI interface {
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	ListPolicies(ctx context.Context, params *organizations.ListPoliciesInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error)
	EnableAllFeatures(ctx context.Context, params *organizations.EnableAllFeaturesInput, optFns ...func(*organizations.Options)) (*organizations.EnableAllFeaturesOutput, error)
	EnableAWSServiceAccess(ctx context.Context, params *organizations.EnableAWSServiceAccessInput, optFns ...func(*organizations.Options)) (*organizations.EnableAWSServiceAccessOutput, error)
	EnablePolicyType(ctx context.Context, params *organizations.EnablePolicyTypeInput, optFns ...func(*organizations.Options)) (*organizations.EnablePolicyTypeOutput, error)
	CreatePolicy(ctx context.Context, params *organizations.CreatePolicyInput, optFns ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error)
	AttachPolicy(ctx context.Context, params *organizations.AttachPolicyInput, optFns ...func(*organizations.Options)) (*organizations.AttachPolicyOutput, error)
	RegisterDelegatedAdministrator(ctx context.Context, params *organizations.RegisterDelegatedAdministratorInput, optFns ...func(*organizations.Options)) (*organizations.RegisterDelegatedAdministratorOutput, error)
}

// Organizations wraps the organization-wide calls of the sweep. Roots and
// accounts are cached per instance; one invocation never needs a fresher
// view.
type Organizations struct {
	api      OrganizationsAPI
	accounts []Account
	roots    []types.Root
}

// NewOrganizations binds a real client. The Organizations API is only served
// from us-east-1, regardless of where the function runs.
func NewOrganizations(cfg awsv2.Config) *Organizations {
	return &Organizations{api: organizations.NewFromConfig(cfg, func(o *organizations.Options) {
		o.Region = organizationsRegion
	})}
}

func newOrganizations(api OrganizationsAPI) *Organizations {
	return &Organizations{api: api}
}

// Describe returns the organization the caller belongs to, or
// ErrOrganizationNotFound.
func (o *Organizations) Describe(ctx context.Context) (*types.Organization, error) {
	out, err := o.api.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		if hasCode(err, "AWSOrganizationsNotInUseException") {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to describe organization: %w", err)
	}
	return out.Organization, nil
}

// ListAccounts returns every ACTIVE account in the organization.
func (o *Organizations) ListAccounts(ctx context.Context) ([]Account, error) {
	if o.accounts != nil {
		return o.accounts, nil
	}

	var accounts []Account
	paginator := organizations.NewListAccountsPaginator(o.api, &organizations.ListAccountsInput{},
		func(po *organizations.ListAccountsPaginatorOptions) {
			po.Limit = accountsPageSize
		})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, account := range page.Accounts {
			if account.Status != types.AccountStatusActive {
				continue
			}
			accounts = append(accounts, Account{
				ID:    awsv2.ToString(account.Id),
				Email: awsv2.ToString(account.Email),
				Name:  awsv2.ToString(account.Name),
			})
		}
	}
	o.accounts = accounts
	return accounts, nil
}

// AccountID resolves an account name to its ID. Returns "" when no ACTIVE
// account carries the name.
func (o *Organizations) AccountID(ctx context.Context, name string) (string, error) {
	accounts, err := o.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	for _, account := range accounts {
		if account.Name == name {
			return account.ID, nil
		}
	}
	return "", nil
}

// EnableAllFeatures upgrades the organization from consolidated billing to
// all features. Already-upgraded organizations answer with a handshake
// constraint violation.
func (o *Organizations) EnableAllFeatures(ctx context.Context) error {
	log.Infof("[%s] enabling all features in the organization", organizationsRegion)
	_, err := o.api.EnableAllFeatures(ctx, &organizations.EnableAllFeaturesInput{})
	return ignoreCode(err, "HandshakeConstraintViolationException")
}

// EnableAllPolicyTypes enables every policy type listed on a root that is not
// already ENABLED.
func (o *Organizations) EnableAllPolicyTypes(ctx context.Context) error {
	roots, err := o.listRoots(ctx)
	if err != nil {
		return err
	}
	for _, root := range roots {
		rootID := awsv2.ToString(root.Id)
		for _, pt := range root.PolicyTypes {
			if pt.Status == types.PolicyTypeStatusEnabled {
				continue
			}
			log.Infof("[%s] enabling policy type %s on root %s", organizationsRegion, pt.Type, rootID)
			_, err := o.api.EnablePolicyType(ctx, &organizations.EnablePolicyTypeInput{
				RootId:     root.Id,
				PolicyType: pt.Type,
			})
			if err := ignoreCode(err, "PolicyTypeAlreadyEnabledException"); err != nil {
				return fmt.Errorf("failed to enable policy type %s: %w", pt.Type, err)
			}
		}
	}
	return nil
}

// EnableServiceAccess grants trusted access to the fixed principal set.
func (o *Organizations) EnableServiceAccess(ctx context.Context) error {
	for _, principal := range serviceAccessPrincipals {
		log.Infof("[%s] enabling service access for %s", organizationsRegion, principal)
		_, err := o.api.EnableAWSServiceAccess(ctx, &organizations.EnableAWSServiceAccessInput{
			ServicePrincipal: awsv2.String(principal),
		})
		if err := ignoreCode(err, "ServiceException"); err != nil {
			return fmt.Errorf("failed to enable service access for %s: %w", principal, err)
		}
	}
	return nil
}

// RegisterDelegatedAdministrators registers accountID as delegated
// administrator for the fixed principal set.
func (o *Organizations) RegisterDelegatedAdministrators(ctx context.Context, accountID string) error {
	for _, principal := range delegatedAdministratorPrincipals {
		log.Infof("[%s] delegating %s administration to account %s", organizationsRegion, principal, accountID)
		_, err := o.api.RegisterDelegatedAdministrator(ctx, &organizations.RegisterDelegatedAdministratorInput{
			AccountId:        awsv2.String(accountID),
			ServicePrincipal: awsv2.String(principal),
		})
		if err := ignoreCode(err, "AccountAlreadyRegisteredException"); err != nil {
			return fmt.Errorf("failed to delegate %s to account %s: %w", principal, accountID, err)
		}
	}
	return nil
}

// AttachAIOptOutPolicy finds or creates the AI services opt-out policy and
// attaches it to every root.
func (o *Organizations) AttachAIOptOutPolicy(ctx context.Context) error {
	policyID, err := o.aiOptOutPolicyID(ctx)
	if err != nil {
		return err
	}

	roots, err := o.listRoots(ctx)
	if err != nil {
		return err
	}
	for _, root := range roots {
		rootID := awsv2.ToString(root.Id)
		log.Infof("[%s] attaching %s (%s) to root %s", organizationsRegion, aiOptOutPolicyName, policyID, rootID)
		_, err := o.api.AttachPolicy(ctx, &organizations.AttachPolicyInput{
			PolicyId: awsv2.String(policyID),
			TargetId: root.Id,
		})
		if err := ignoreCode(err, "DuplicatePolicyAttachmentException"); err != nil {
			return fmt.Errorf("failed to attach policy %s to root %s: %w", policyID, rootID, err)
		}
	}
	return nil
}

// aiOptOutPolicyID returns the ID of the opt-out policy, creating it if
// missing. A concurrent creator surfaces as DuplicatePolicyException, in
// which case the listing is retried once.
func (o *Organizations) aiOptOutPolicyID(ctx context.Context) (string, error) {
	id, err := o.findPolicy(ctx, types.PolicyTypeAiservicesOptOutPolicy, aiOptOutPolicyName)
	if err != nil || id != "" {
		return id, err
	}

	log.Infof("[%s] %s policy not found, creating", organizationsRegion, aiOptOutPolicyName)
	out, err := o.api.CreatePolicy(ctx, &organizations.CreatePolicyInput{
		Content:     awsv2.String(aiOptOutPolicy),
		Description: awsv2.String("Opt-out of all AI services"),
		Name:        awsv2.String(aiOptOutPolicyName),
		Type:        types.PolicyTypeAiservicesOptOutPolicy,
	})
	if err != nil {
		if hasCode(err, "DuplicatePolicyException") {
			id, err := o.findPolicy(ctx, types.PolicyTypeAiservicesOptOutPolicy, aiOptOutPolicyName)
			if err != nil {
				return "", err
			}
			// The listing can lag the duplicate error; attaching an
			// empty policy ID must never be attempted.
			if id == "" {
				return "", fmt.Errorf("policy %s reported as duplicate but not listed", aiOptOutPolicyName)
			}
			return id, nil
		}
		return "", fmt.Errorf("failed to create policy %s: %w", aiOptOutPolicyName, err)
	}
	return awsv2.ToString(out.Policy.PolicySummary.Id), nil
}

// findPolicy returns the ID of the named policy of the given type, or "".
func (o *Organizations) findPolicy(ctx context.Context, policyType types.PolicyType, name string) (string, error) {
	paginator := organizations.NewListPoliciesPaginator(o.api, &organizations.ListPoliciesInput{
		Filter: policyType,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list %s policies: %w", policyType, err)
		}
		for _, policy := range page.Policies {
			if awsv2.ToString(policy.Name) == name {
				return awsv2.ToString(policy.Id), nil
			}
		}
	}
	return "", nil
}

func (o *Organizations) listRoots(ctx context.Context) ([]types.Root, error) {
	if o.roots != nil {
		return o.roots, nil
	}

	var roots []types.Root
	paginator := organizations.NewListRootsPaginator(o.api, &organizations.ListRootsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list roots: %w", err)
		}
		roots = append(roots, page.Roots...)
	}
	o.roots = roots
	return roots, nil
}
