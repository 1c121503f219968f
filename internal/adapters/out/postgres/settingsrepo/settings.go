// Package settingsrepo overlays operator-edited rows of the "settings" table
// on top of the static dispatch defaults.
package settingsrepo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

const (
	KeyReadyStatus             = "dispatch.ready_status"
	KeyMaxDriverOrders         = "dispatch.max_driver_orders"
	KeySearchRadiusKm          = "dispatch.driver_search_radius_km"
	KeyMaxDriversNotified      = "dispatch.max_driver_notify_at_once"
	KeyAlertDurationSeconds    = "dispatch.alert_duration_seconds"
	KeyExcludedVendorTypes     = "dispatch.excluded_vendor_types"
	KeyBatchSize               = "dispatch.batch_size"
	KeyDropoffRegionFromPickup = "dispatch.dropoff_region_from_pickup"

	keyPrefix = "dispatch."
)

// SettingDTO is a row of "settings".
type SettingDTO struct {
	Key   string `gorm:"type:varchar(128);primaryKey"`
	Value string `gorm:"type:text;not null"`
}

func (SettingDTO) TableName() string {
	return "settings"
}

// GormSettingsSource implements ports.SettingsSource.
type GormSettingsSource struct {
	db       *gorm.DB
	defaults ports.DispatchSettings
}

func NewGormSettingsSource(db *gorm.DB, defaults ports.DispatchSettings) (*GormSettingsSource, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default settings: %w", err)
	}
	return &GormSettingsSource{db: db, defaults: defaults}, nil
}

func (s *GormSettingsSource) Load(ctx context.Context) (ports.DispatchSettings, error) {
	var rows []SettingDTO
	err := s.db.WithContext(ctx).
		Where("key LIKE ?", keyPrefix+"%").
		Find(&rows).Error
	if err != nil {
		return ports.DispatchSettings{}, err
	}

	settings := s.defaults
	settings.ExcludedVendorTypes = append([]string(nil), s.defaults.ExcludedVendorTypes...)

	var errList []error
	for _, row := range rows {
		if err := apply(&settings, row.Key, strings.TrimSpace(row.Value)); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return ports.DispatchSettings{}, err
	}

	if err := settings.Validate(); err != nil {
		return ports.DispatchSettings{}, err
	}
	return settings, nil
}

// Put upserts one setting.
func (s *GormSettingsSource) Put(ctx context.Context, key, value string) error {
	if !strings.HasPrefix(key, keyPrefix) {
		return errs.NewValueIsInvalidError("setting key " + key)
	}
	return s.db.WithContext(ctx).Save(&SettingDTO{Key: key, Value: value}).Error
}

func apply(s *ports.DispatchSettings, key, value string) error {
	invalid := func(cause error) error {
		return errs.NewValueIsInvalidErrorWithCause("setting "+key, cause)
	}

	switch key {
	case KeyReadyStatus:
		s.ReadyStatus = value
	case KeyMaxDriverOrders:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		s.MaxOrdersPerDriver = n
	case KeySearchRadiusKm:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid(err)
		}
		// ParseFloat accepts "NaN" and "Inf"; neither bounds a search.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errs.NewValueIsOutOfRangeError("setting "+key, value, "0 (exclusive)", "finite")
		}
		s.SearchRadiusKm = f
	case KeyMaxDriversNotified:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		s.MaxDriversNotified = n
	case KeyAlertDurationSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		s.AlertDuration = time.Duration(n) * time.Second
	case KeyExcludedVendorTypes:
		s.ExcludedVendorTypes = splitList(value)
	case KeyBatchSize:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		s.BatchSize = n
	case KeyDropoffRegionFromPickup:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(err)
		}
		s.DropoffRegionFromPickup = b
	}
	// Unknown dispatch.* keys belong to other consumers.
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
