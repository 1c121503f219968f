package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Kind tags which sub-record owns an order's pickup location.
type Kind int

const (
	KindUnknown Kind = iota
	KindTaxi
	KindVendorDelivery
	KindParcel
	KindOther
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:        "unknown",
		KindTaxi:           "taxi",
		KindVendorDelivery: "vendor-delivery",
		KindParcel:         "parcel",
		KindOther:          "other",
	}
}

func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) Validate() error {
	if k <= KindUnknown || k > KindOther {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

// IsParcel drives the is_parcel flag of the offer payload.
func (k Kind) IsParcel() bool {
	return k == KindParcel
}
