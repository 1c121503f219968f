// Package firebaseproximity finds candidates among the online drivers
// published to Firebase Realtime Database.
package firebaseproximity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"firebase.google.com/go/v4/db"
)

const (
	DefaultLocationsPath = "driver_locations"
	onlineStatus         = "online"
)

// LocationEntry mirrors one child of the driver locations node.
type LocationEntry struct {
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Status        string  `json:"status"`
	VehicleTypeID string  `json:"vehicle_type_id,omitempty"`
	Timestamp     int64   `json:"timestamp"`
}

// LocationReader returns online drivers keyed by driver id.
type LocationReader interface {
	OnlineDrivers(ctx context.Context) (map[string]LocationEntry, error)
}

// RTDBLocations reads the locations node with an ordered status query.
type RTDBLocations struct {
	client *db.Client
	path   string
}

func NewRTDBLocations(client *db.Client, path string) *RTDBLocations {
	if path == "" {
		path = DefaultLocationsPath
	}
	return &RTDBLocations{client: client, path: path}
}

func (r *RTDBLocations) OnlineDrivers(ctx context.Context) (map[string]LocationEntry, error) {
	var data map[string]LocationEntry
	if err := r.client.NewRef(r.path).OrderByChild("status").EqualTo(onlineStatus).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("querying online drivers: %w", err)
	}
	return data, nil
}

// DriverSource implements ports.CandidateDriverSource on top of a LocationReader.
type DriverSource struct {
	locations LocationReader
	logger    *slog.Logger
}

func NewDriverSource(locations LocationReader, logger *slog.Logger) (*DriverSource, error) {
	var errList []error
	if locations == nil {
		errList = append(errList, errs.NewValueIsRequiredError("location reader"))
	}
	if logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return &DriverSource{locations: locations, logger: logger.With("component", "firebaseproximity")}, nil
}

type ranked struct {
	candidate ports.Candidate
	distance  float64
}

func (s *DriverSource) FindCandidates(ctx context.Context, q ports.CandidateQuery) ([]ports.Candidate, error) {
	if q.Limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", q.Limit, 1, "unbounded")
	}
	if !services.IsUsableRadius(q.RadiusKm) {
		return nil, errs.NewValueIsOutOfRangeError("radius km", q.RadiusKm, "0 (exclusive)", "finite")
	}

	entries, err := s.locations.OnlineDrivers(ctx)
	if err != nil {
		return nil, err
	}

	var wantVehicle string
	if q.VehicleTypeID != nil {
		wantVehicle = q.VehicleTypeID.String()
	}

	nearby := make([]ranked, 0, len(entries))
	for key, entry := range entries {
		// The ordered query is a hint; some RTDB rules ignore it.
		if entry.Status != onlineStatus {
			continue
		}
		if wantVehicle != "" && entry.VehicleTypeID != wantVehicle {
			continue
		}
		id, err := kernel.ParseUUID(key)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed driver key", "key", key, "error", err)
			continue
		}
		if q.IsExcluded(id) {
			continue
		}
		at, err := kernel.NewGeoPoint(entry.Lat, entry.Lng)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping driver with invalid position", "driver_id", key, "error", err)
			continue
		}
		dist, err := at.DistanceKm(q.Pickup)
		if err != nil {
			return nil, err
		}
		if dist > q.RadiusKm {
			continue
		}
		nearby = append(nearby, ranked{candidate: ports.Candidate{DriverID: id, Location: at}, distance: dist})
	}

	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].distance < nearby[j].distance })
	if len(nearby) > q.Limit {
		nearby = nearby[:q.Limit]
	}

	out := make([]ports.Candidate, 0, len(nearby))
	for _, r := range nearby {
		out = append(out, r.candidate)
	}
	return out, nil
}
