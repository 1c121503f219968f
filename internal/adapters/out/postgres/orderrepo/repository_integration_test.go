package orderrepo_test

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const ready = "ready"

// OrderRepositoryIntegrationTestSuite checks the eligibility query against a
// real PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	db         *gorm.DB
	fx         pgtest.Fixtures
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.db = pg.DB
	suite.fx = pgtest.Fixtures{DB: pg.DB}
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) criteria() ports.EligibilityCriteria {
	return ports.EligibilityCriteria{ReadyStatus: ready, Limit: ports.DefaultBatchSize}
}

func (suite *OrderRepositoryIntegrationTestSuite) vendorOrder(slug string, auto bool) orderrepo.OrderDTO {
	vendor, err := suite.fx.Vendor(slug, auto, suite.fx.Location(5.6037, -0.1870, "Osu"))
	suite.Require().NoError(err)
	address, err := suite.fx.Place(suite.fx.Location(5.6200, -0.1700, "Labone"))
	suite.Require().NoError(err)
	o, err := suite.fx.VendorOrder(ready, vendor, &address)
	suite.Require().NoError(err)
	return o
}

func ids(orders []*order.Order) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID().Raw())
	}
	return out
}

func (suite *OrderRepositoryIntegrationTestSuite) TestTaxiOrderWithoutDriverIsEligible() {
	ctx := suite.T().Context()
	taxi, err := suite.fx.TaxiOrder(ready,
		suite.fx.Location(5.60, -0.18, "Ring Road"),
		suite.fx.Location(5.65, -0.15, "Airport"))
	suite.Require().NoError(err)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(taxi.ID, orders[0].ID().Raw())
	suite.Equal(order.KindTaxi, orders[0].Kind())
	suite.Nil(orders[0].VendorID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestTaxiOrderWithDriverIsNotEligible() {
	ctx := suite.T().Context()
	taxi, err := suite.fx.TaxiOrder(ready,
		suite.fx.Location(5.60, -0.18, "Ring Road"),
		suite.fx.Location(5.65, -0.15, "Airport"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", taxi.ID).Update("driver_id", uuid.New()).Error)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestWrongStatusIsNotEligible() {
	ctx := suite.T().Context()
	_, err := suite.fx.TaxiOrder("pending",
		suite.fx.Location(5.60, -0.18, "Ring Road"),
		suite.fx.Location(5.65, -0.15, "Airport"))
	suite.Require().NoError(err)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestVendorOrderRequiresAutoAssignment() {
	ctx := suite.T().Context()
	auto := suite.vendorOrder("food", true)
	suite.vendorOrder("food", false)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{auto.ID}, ids(orders))
	suite.Equal(order.KindVendorDelivery, orders[0].Kind())
	suite.Require().NotNil(orders[0].Vendor())
	suite.Equal("food", orders[0].Vendor().TypeSlug)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestVendorOrderWithAnyAttemptIsNotEligible() {
	ctx := suite.T().Context()
	o := suite.vendorOrder("food", true)
	suite.Require().NoError(suite.db.Create(&assignmentrepo.AttemptDTO{
		ID: uuid.New(), OrderID: o.ID, DriverID: uuid.New(), Status: "rejected",
	}).Error)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestVendorOrderNeedsDeliveryAddressOrStops() {
	ctx := suite.T().Context()
	vendor, err := suite.fx.Vendor("food", true, suite.fx.Location(5.6037, -0.1870, "Osu"))
	suite.Require().NoError(err)
	bare, err := suite.fx.VendorOrder(ready, vendor, nil)
	suite.Require().NoError(err)
	withStops, err := suite.fx.VendorOrder(ready, vendor, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.fx.Stop(withStops.ID, 2, suite.fx.Location(5.64, -0.16, "Second")))
	suite.Require().NoError(suite.fx.Stop(withStops.ID, 1, suite.fx.Location(5.63, -0.17, "First")))

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{withStops.ID}, ids(orders))
	suite.NotContains(ids(orders), bare.ID)

	stops := orders[0].Stops()
	suite.Require().Len(stops, 2)
	suite.Equal("First", stops[0].Address())
	suite.Equal("Second", stops[1].Address())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestExcludedVendorTypes() {
	ctx := suite.T().Context()
	food := suite.vendorOrder("food", true)
	suite.vendorOrder("pharmacy", true)

	criteria := suite.criteria()
	criteria.ExcludedVendorTypes = []string{"pharmacy", "service"}
	orders, err := suite.repository.GetEligibleForDispatch(ctx, criteria)

	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{food.ID}, ids(orders))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestParcelVendorOrder() {
	ctx := suite.T().Context()
	o := suite.vendorOrder(orderrepo.ParcelVendorType, true)
	pickup, err := suite.fx.Place(suite.fx.Location(5.61, -0.19, "Parcel pickup"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{"parcel_pickup_location_id": pickup.ID, "package_type": "box"}).Error)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(order.KindParcel, orders[0].Kind())
	suite.Equal("box", orders[0].PackageType())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBatchIsCappedAtLimit() {
	ctx := suite.T().Context()
	for range 25 {
		_, err := suite.fx.TaxiOrder(ready,
			suite.fx.Location(5.60, -0.18, "Ring Road"),
			suite.fx.Location(5.65, -0.15, "Airport"))
		suite.Require().NoError(err)
	}

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Require().NoError(err)
	suite.Len(orders, 20)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestMalformedRowIsReportedSeparately() {
	ctx := suite.T().Context()
	good := suite.vendorOrder("food", true)
	broken := suite.vendorOrder("food", true)
	suite.Require().NoError(suite.db.Exec(
		"UPDATE places SET latitude = 120 WHERE id = (SELECT delivery_address_id FROM orders WHERE id = ?)", broken.ID,
	).Error)

	orders, err := suite.repository.GetEligibleForDispatch(ctx, suite.criteria())

	suite.Equal([]uuid.UUID{good.ID}, ids(orders))
	var loadErrs *ports.OrderLoadErrors
	suite.Require().True(errors.As(err, &loadErrs))
	suite.Require().Len(loadErrs.Failures, 1)
	suite.Equal(broken.ID, loadErrs.Failures[0].OrderID.Raw())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestInvalidLimit() {
	_, err := suite.repository.GetEligibleForDispatch(suite.T().Context(), ports.EligibilityCriteria{ReadyStatus: ready})

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet() {
	ctx := suite.T().Context()
	o := suite.vendorOrder("food", true)

	got, err := suite.repository.Get(ctx, kernel.MustParseUUID(o.ID.String()))
	suite.Require().NoError(err)
	suite.Equal("25.00", got.Total())

	_, err = suite.repository.Get(ctx, kernel.NewUUID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestOrderRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
