package ports

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// DispatchSettings is the configuration one sweep runs with.
type DispatchSettings struct {
	ReadyStatus             string
	MaxOrdersPerDriver      int
	SearchRadiusKm          float64
	MaxDriversNotified      int
	AlertDuration           time.Duration
	ExcludedVendorTypes     []string
	BatchSize               int
	DropoffRegionFromPickup bool
}

// SettingsSource resolves the settings for the next sweep.
type SettingsSource interface {
	Load(ctx context.Context) (DispatchSettings, error)
}

func (s DispatchSettings) Validate() error {
	var errList []error
	if s.ReadyStatus == "" {
		errList = append(errList, errs.NewValueIsRequiredError("ready status"))
	}
	if s.BatchSize < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("batch size", s.BatchSize, 1, "unbounded"))
	}
	if s.AlertDuration < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("alert duration", s.AlertDuration, 0, "unbounded"))
	}
	errList = append(errList, s.MatchPolicy().Validate())
	return errors.Join(errList...)
}

func (s DispatchSettings) MatchPolicy() services.MatchPolicy {
	return services.MatchPolicy{
		MaxOrdersPerDriver:      s.MaxOrdersPerDriver,
		SearchRadiusKm:          s.SearchRadiusKm,
		MaxDriversNotified:      s.MaxDriversNotified,
		DropoffRegionFromPickup: s.DropoffRegionFromPickup,
	}
}

func (s DispatchSettings) EligibilityCriteria() EligibilityCriteria {
	return EligibilityCriteria{
		ReadyStatus:         s.ReadyStatus,
		ExcludedVendorTypes: append([]string(nil), s.ExcludedVendorTypes...),
		Limit:               s.BatchSize,
	}
}
