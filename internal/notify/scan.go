// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

/*
Package notify implements the document-expiry alerting.

Two independent windows exist on purpose:

  - The daily scan emails each opted-in user the documents expiring within
    their personal lead window (notification_days_before).
  - The on-demand badge endpoint classifies documents against a fixed
    30-day window, regardless of personal settings.

The scan keeps no watermark: re-running it on unchanged data re-sends the
same digests.
*/
package notify

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
)

// # Sources

// UserSource lists the accounts that opted into expiry emails.
type UserSource interface {
	ListWithNotificationsEnabled(context context.Context) ([]*auth.User, error)
}

// VehicleSource provides the fleet whose documents are checked.
type VehicleSource interface {
	ListAll(context context.Context, organizationID string) ([]*vehicle.Vehicle, error)
}

// DriverSource provides the drivers whose documents are checked.
type DriverSource interface {
	ListAll(context context.Context, organizationID string) ([]*driver.Driver, error)
}

// Scanner runs the periodic expiry evaluation.
type Scanner struct {
	users    UserSource
	vehicles VehicleSource
	drivers  DriverSource
	mailer   Mailer
	logger   *slog.Logger
}

func NewScanner(users UserSource, vehicles VehicleSource, drivers DriverSource, mailer Mailer, logger *slog.Logger) *Scanner {
	return &Scanner{
		users:    users,
		vehicles: vehicles,
		drivers:  drivers,
		mailer:   mailer,
		logger:   logger,
	}
}

/*
Scan evaluates every opted-in user's organization against their personal
lead window and hands each non-empty digest to the mailer.

A failed delivery is recorded in the report and does not stop the batch.
The returned error covers only evaluation failures, never delivery ones.
*/
func (scanner *Scanner) Scan(context context.Context, now time.Time) (*Report, error) {
	users, err := scanner.users.ListWithNotificationsEnabled(context)
	if err != nil {
		return nil, err
	}

	report := &Report{Failed: []FailedDelivery{}}

	// Alert sets are per organization; cache them so colleagues sharing a
	// window do not trigger duplicate store reads within one run.
	orgAlerts := map[string][]Alert{}

	for _, user := range users {
		if user.OrganizationID == nil {
			continue
		}
		organizationID := *user.OrganizationID

		alerts, ok := orgAlerts[organizationID]
		if !ok {
			alerts, err = scanner.collect(context, organizationID, now)
			if err != nil {
				return nil, err
			}
			orgAlerts[organizationID] = alerts
		}

		digest := filterWindow(alerts, user.NotificationDaysBefore)
		if len(digest) == 0 {
			continue
		}

		if err := scanner.mailer.SendExpiryAlerts(context, user, digest); err != nil {
			scanner.logger.Warn("expiry_digest_delivery_failed",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			report.Failed = append(report.Failed, FailedDelivery{
				UserID: user.ID,
				Email:  user.Email,
				Reason: err.Error(),
			})
			continue
		}
		report.Sent++
	}

	scanner.logger.Info("expiry_scan_finished",
		slog.Int("sent", report.Sent),
		slog.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// collect gathers every dated document of an organization as an alert,
// ordered expired first, then ascending by days until expiry.
func (scanner *Scanner) collect(context context.Context, organizationID string, now time.Time) ([]Alert, error) {
	alerts := []Alert{}

	add := func(kind SourceKind, sourceID, name string, document Document, expiry *time.Time) {
		if expiry == nil {
			return
		}
		alerts = append(alerts, Alert{
			Kind:            kind,
			SourceID:        sourceID,
			Name:            name,
			Document:        document,
			ExpiryDate:      *expiry,
			DaysUntilExpiry: DaysUntil(now, *expiry),
		})
	}

	vehicles, err := scanner.vehicles.ListAll(context, organizationID)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		add(SourceVehicle, v.ID, v.RegistrationNumber, DocInspection, v.InspectionExpiryDate)
		add(SourceVehicle, v.ID, v.RegistrationNumber, DocRegistration, v.RegistrationExpiryDate)
		add(SourceVehicle, v.ID, v.RegistrationNumber, DocFireExtinguisher, v.FireExtinguisherExpiryDate)
	}

	drivers, err := scanner.drivers.ListAll(context, organizationID)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		add(SourceDriver, d.ID, d.FullName(), DocLicense, d.LicenseExpiryDate)
		add(SourceDriver, d.ID, d.FullName(), DocMedicalExam, d.MedicalExamExpiryDate)
		add(SourceDriver, d.ID, d.FullName(), DocDriverCard, d.DriverCardExpiryDate)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Expired() != alerts[j].Expired() {
			return alerts[i].Expired()
		}
		return alerts[i].DaysUntilExpiry < alerts[j].DaysUntilExpiry
	})
	return alerts, nil
}

// filterWindow keeps already-expired alerts plus those inside the user's
// lead window. Order is preserved.
func filterWindow(alerts []Alert, daysBefore int) []Alert {
	filtered := []Alert{}
	for _, alert := range alerts {
		if alert.Expired() || alert.DaysUntilExpiry <= daysBefore {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}
