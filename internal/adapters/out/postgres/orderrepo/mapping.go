package orderrepo

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// toDomain restores an Order from a row and its preloaded relations.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	params := order.Params{
		ID:          id,
		Status:      dto.Status,
		Kind:        kindOf(dto),
		DeliveryFee: dto.DeliveryFee,
		Total:       dto.Total,
		PackageType: dto.PackageType,
	}

	var errList []error
	if params.AssignedDriver, err = optionalUUID(dto.DriverID); err != nil {
		errList = append(errList, err)
	}
	if dto.Vendor != nil {
		vendor, vendorErr := vendorToDomain(*dto.Vendor)
		errList = append(errList, vendorErr)
		params.Vendor = vendor
	}
	if dto.Taxi != nil {
		taxi, taxiErr := taxiToDomain(*dto.Taxi)
		errList = append(errList, taxiErr)
		params.Taxi = taxi
	}
	if params.Kind == order.KindParcel && dto.ParcelPickup != nil {
		route, routeErr := parcelToDomain(*dto.ParcelPickup, dto.ParcelDropoff)
		errList = append(errList, routeErr)
		params.Parcel = route
	}
	if dto.DeliveryAddress != nil {
		address, addressErr := placeToDomain(dto.DeliveryAddress.Location)
		errList = append(errList, addressErr)
		params.DeliveryAddress = &address
	}
	for _, stop := range dto.Stops {
		place, stopErr := placeToDomain(stop.Location)
		errList = append(errList, stopErr)
		params.Stops = append(params.Stops, place)
	}
	if err = errors.Join(errList...); err != nil {
		return nil, err
	}

	return order.RestoreOrder(params)
}

// kindOf derives the order kind from which related rows exist: a taxi
// sub-order makes a taxi order, a parcel vendor a parcel order.
func kindOf(dto OrderDTO) order.Kind {
	switch {
	case dto.Taxi != nil:
		return order.KindTaxi
	case dto.Vendor != nil && dto.Vendor.VendorTypeSlug == ParcelVendorType:
		return order.KindParcel
	case dto.Vendor != nil:
		return order.KindVendorDelivery
	default:
		return order.KindOther
	}
}

func vendorToDomain(dto VendorDTO) (*order.Vendor, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	place, err := placeToDomain(dto.Location)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("vendor location", err)
	}

	v := &order.Vendor{ID: id, Place: place, TypeSlug: dto.VendorTypeSlug}
	if dto.DeliveryRange != nil {
		v.DeliveryRange = *dto.DeliveryRange
	}
	if dto.MaxDriverOrders != nil {
		v.MaxOrdersPerDriver = *dto.MaxDriverOrders
	}
	return v, nil
}

func taxiToDomain(dto TaxiOrderDTO) (*order.TaxiTrip, error) {
	pickup, pickupErr := placeToDomain(dto.Pickup)
	dropoff, dropoffErr := placeToDomain(dto.Dropoff)
	vehicleType, vehicleErr := optionalUUID(dto.VehicleTypeID)
	if err := errors.Join(pickupErr, dropoffErr, vehicleErr); err != nil {
		return nil, err
	}
	return &order.TaxiTrip{Pickup: pickup, Dropoff: dropoff, VehicleTypeID: vehicleType}, nil
}

func parcelToDomain(pickupDTO PlaceDTO, dropoffDTO *PlaceDTO) (*order.ParcelRoute, error) {
	pickup, err := placeToDomain(pickupDTO.Location)
	if err != nil {
		return nil, err
	}
	route := &order.ParcelRoute{Pickup: pickup}
	if dropoffDTO != nil {
		dropoff, err := placeToDomain(dropoffDTO.Location)
		if err != nil {
			return nil, err
		}
		route.Dropoff = &dropoff
	}
	return route, nil
}

func placeToDomain(dto PlaceFieldsDTO) (kernel.Place, error) {
	point, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return kernel.Place{}, err
	}
	return kernel.NewPlace(point, dto.Address, kernel.Region{
		City:    dto.City,
		State:   dto.State,
		Country: dto.Country,
	})
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFrom(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
