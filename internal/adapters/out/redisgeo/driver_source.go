// Package redisgeo keeps driver positions in a Redis GEO set and answers
// candidate lookups with a bounding-box GEOSEARCH.
//
// The box circumscribes the search circle, so corners up to radius*sqrt(2)
// away are returned too; the matcher's distance check turns those into
// rejections.
package redisgeo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "dispatch:drivers"
)

// DriverSource implements ports.CandidateDriverSource over Redis GEO.
type DriverSource struct {
	rdb    redis.Cmdable
	prefix string
	logger *slog.Logger
}

func NewDriverSource(rdb redis.Cmdable, prefix string, logger *slog.Logger) (*DriverSource, error) {
	var errList []error
	if rdb == nil {
		errList = append(errList, errs.NewValueIsRequiredError("redis client"))
	}
	if logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &DriverSource{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "redisgeo"),
	}, nil
}

func (s *DriverSource) FindCandidates(ctx context.Context, q ports.CandidateQuery) ([]ports.Candidate, error) {
	if q.Limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", q.Limit, 1, "unbounded")
	}
	if !services.IsUsableRadius(q.RadiusKm) {
		return nil, errs.NewValueIsOutOfRangeError("radius km", q.RadiusKm, "0 (exclusive)", "finite")
	}

	locations, err := s.rdb.GeoSearchLocation(ctx, s.key(q.VehicleTypeID), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude: q.Pickup.Lng(),
			Latitude:  q.Pickup.Lat(),
			BoxWidth:  2 * q.RadiusKm,
			BoxHeight: 2 * q.RadiusKm,
			BoxUnit:   "km",
			Sort:      "ASC",
			Count:     q.Limit + len(q.Exclude),
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch: %w", err)
	}

	candidates := make([]ports.Candidate, 0, q.Limit)
	for _, loc := range locations {
		if len(candidates) == q.Limit {
			break
		}
		id, err := kernel.ParseUUID(loc.Name)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed geo member", "member", loc.Name, "error", err)
			continue
		}
		if q.IsExcluded(id) {
			continue
		}
		point, err := kernel.NewGeoPoint(loc.Latitude, loc.Longitude)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping driver with invalid position", "driver_id", id.String(), "error", err)
			continue
		}
		candidates = append(candidates, ports.Candidate{DriverID: id, Location: point})
	}
	return candidates, nil
}

// UpdateDriverLocation stores the driver in the shared set and, when given,
// in its vehicle type set.
func (s *DriverSource) UpdateDriverLocation(ctx context.Context, driverID kernel.UUID, at kernel.GeoPoint, vehicleTypeID *kernel.UUID) error {
	if err := errors.Join(driverID.Validate(), at.Validate()); err != nil {
		return err
	}

	loc := &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: at.Lng(),
		Latitude:  at.Lat(),
	}
	pipe := s.rdb.TxPipeline()
	pipe.GeoAdd(ctx, s.key(nil), loc)
	if vehicleTypeID != nil {
		pipe.GeoAdd(ctx, s.key(vehicleTypeID), loc)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveDriver drops the driver from the shared set and its vehicle type set.
func (s *DriverSource) RemoveDriver(ctx context.Context, driverID kernel.UUID, vehicleTypeID *kernel.UUID) error {
	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, s.key(nil), driverID.String())
	if vehicleTypeID != nil {
		pipe.ZRem(ctx, s.key(vehicleTypeID), driverID.String())
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *DriverSource) key(vehicleTypeID *kernel.UUID) string {
	if vehicleTypeID == nil {
		return s.prefix
	}
	return s.prefix + ":vehicle:" + vehicleTypeID.String()
}
