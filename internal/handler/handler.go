// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"

	"github.com/org-setup/org-setup/internal/config"
	"github.com/org-setup/org-setup/internal/log"
)

// landingZoneEventName is the Control Tower lifecycle event the function
// reacts to.
const landingZoneEventName = "SetupLandingZone"

// physicalResourceID names the custom resource across stack updates; the
// sweep has no physical counterpart to point at.
const physicalResourceID = "organization-setup"

// Setup is the sweep entrypoint the handler dispatches to.
type Setup interface {
	Setup(ctx context.Context, primaryRegion, adminAccountID string) error
}

// Handler routes raw invocation payloads to the sweep.
type Handler struct {
	settings config.Settings
	setup    Setup
}

// New returns a Handler dispatching to setup.
func New(settings config.Settings, setup Setup) *Handler {
	return &Handler{settings: settings, setup: setup}
}

// Handle inspects the raw payload and dispatches. Unrecognized payloads are
// dropped without error so a broad EventBridge rule cannot wedge the
// function into retry loops.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) error {
	if isCustomResourceEvent(raw) {
		var event cfn.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		// LambdaWrap reports sweep failures to CloudFormation through the
		// response document; the returned error only covers delivery.
		_, err := cfn.LambdaWrap(h.handleCustomResource)(ctx, event)
		return err
	}

	if lz, ok := parseLandingZone(raw); ok {
		log.Infof("landing zone setup detected in %s", lz.Region)
		return h.setup.Setup(ctx, lz.Region, lz.accountID(h.settings.AdministratorAccountName))
	}

	log.Warnf("ignoring unrecognized event")
	return nil
}

// handleCustomResource runs the sweep on Create and Update and acknowledges
// Delete without touching anything. The execution-count property exists only
// so stack updates produce a change to react to.
func (h *Handler) handleCustomResource(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	id := event.PhysicalResourceID
	if id == "" {
		id = physicalResourceID
	}

	if event.RequestType == cfn.RequestDelete {
		log.Infof("delete request acknowledged, nothing to undo")
		return id, nil, nil
	}

	if h.settings.PrimaryRegion == "" {
		return id, nil, errors.New("PRIMARY_REGION is required")
	}
	return id, nil, h.setup.Setup(ctx, h.settings.PrimaryRegion, "")
}

// landingZoneEvent is what the sweep needs from the lifecycle event.
type landingZoneEvent struct {
	Region   string
	Accounts []landingZoneAccount
}

type landingZoneAccount struct {
	Name string
	ID   string
}

// accountID returns the ID of the named account from the event's account
// list, or "" so the sweep falls back to resolving by name.
func (e landingZoneEvent) accountID(name string) string {
	for _, account := range e.Accounts {
		if account.Name == name {
			return account.ID
		}
	}
	return ""
}

// isCustomResourceEvent recognizes the CloudFormation custom-resource
// protocol by its required fields.
func isCustomResourceEvent(raw []byte) bool {
	doc := gjson.ParseBytes(raw)
	return doc.Get("RequestType").Exists() && doc.Get("ResponseURL").Exists()
}

// parseLandingZone extracts the SetupLandingZone lifecycle event, whether the
// payload is the bare CloudTrail record or the EventBridge envelope around
// it.
func parseLandingZone(raw []byte) (landingZoneEvent, bool) {
	detail := raw

	var envelope events.CloudWatchEvent
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		detail = envelope.Detail
	}

	doc := gjson.ParseBytes(detail)
	if doc.Get("eventName").String() != landingZoneEventName {
		return landingZoneEvent{}, false
	}

	event := landingZoneEvent{Region: doc.Get("awsRegion").String()}
	if event.Region == "" {
		event.Region = envelope.Region
	}

	doc.Get("serviceEventDetails.setupLandingZoneStatus.accounts").ForEach(func(_, account gjson.Result) bool {
		event.Accounts = append(event.Accounts, landingZoneAccount{
			Name: account.Get("accountName").String(),
			ID:   account.Get("accountId").String(),
		})
		return true
	})
	return event, true
}
