package services

import (
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// OfferLocation is one end of the trip as shown to the driver.
type OfferLocation struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Distance string `json:"distance"`
}

// OfferPayload is the document delivered to a driver with a new offer. Every
// field is a string except the nested locations and NotificationTime.
type OfferPayload struct {
	Pickup           OfferLocation `json:"pickup"`
	Dropoff          OfferLocation `json:"dropoff"`
	PickupDistance   string        `json:"pickup_distance"`
	Amount           string        `json:"amount"`
	Total            string        `json:"total"`
	VendorID         string        `json:"vendor_id"`
	IsParcel         string        `json:"is_parcel"`
	PackageType      string        `json:"package_type"`
	ID               string        `json:"id"`
	Range            string        `json:"range"`
	NotificationTime int           `json:"notificationTime"`
}

// OfferBuilder turns a matched (order, driver position) pair into an OfferPayload.
type OfferBuilder struct{}

func NewOfferBuilder() OfferBuilder {
	return OfferBuilder{}
}

// Build computes distances from the driver position to both ends of the
// trip and fills the payload. alertDuration becomes NotificationTime in
// whole seconds.
func (b OfferBuilder) Build(oc OrderContext, driverAt kernel.GeoPoint, alertDuration time.Duration) (OfferPayload, error) {
	if err := oc.Order.Validate(); err != nil {
		return OfferPayload{}, err
	}

	toPickup, err := driverAt.DistanceKm(oc.Pickup.Point())
	if err != nil {
		return OfferPayload{}, fmt.Errorf("distance to pickup: %w", err)
	}
	toDropoff, err := driverAt.DistanceKm(oc.Dropoff.Point())
	if err != nil {
		return OfferPayload{}, fmt.Errorf("distance to dropoff: %w", err)
	}

	var vendorID, deliveryRange string
	if v := oc.Order.Vendor(); v != nil {
		vendorID = v.ID.String()
		deliveryRange = v.DeliveryRange
	}

	return OfferPayload{
		Pickup:           offerLocation(oc.Pickup, toPickup),
		Dropoff:          offerLocation(oc.Dropoff, toDropoff),
		PickupDistance:   formatKm(toPickup),
		Amount:           oc.Order.DeliveryFee(),
		Total:            oc.Order.Total(),
		VendorID:         vendorID,
		IsParcel:         strconv.FormatBool(oc.Order.Kind().IsParcel()),
		PackageType:      oc.Order.PackageType(),
		ID:               oc.Order.ID().String(),
		Range:            deliveryRange,
		NotificationTime: int(alertDuration / time.Second),
	}, nil
}

func offerLocation(p kernel.Place, distanceKm float64) OfferLocation {
	region := p.Region()
	return OfferLocation{
		Lat:      strconv.FormatFloat(p.Point().Lat(), 'f', 6, 64),
		Long:     strconv.FormatFloat(p.Point().Lng(), 'f', 6, 64),
		Address:  p.Address(),
		City:     region.City,
		State:    region.State,
		Country:  region.Country,
		Distance: formatKm(distanceKm),
	}
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64)
}
