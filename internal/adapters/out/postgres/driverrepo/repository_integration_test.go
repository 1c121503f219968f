package driverrepo_test

import (
	"context"
	"testing"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type DriverDirectoryIntegrationTestSuite struct {
	suite.Suite
	pg        *pgtest.Database
	fx        pgtest.Fixtures
	directory *driverrepo.GormDriverDirectory
}

func (suite *DriverDirectoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.fx = pgtest.Fixtures{DB: pg.DB}
	suite.directory = driverrepo.NewGormDriverDirectory(pg.DB)
}

func (suite *DriverDirectoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *DriverDirectoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *DriverDirectoryIntegrationTestSuite) TestGet() {
	ctx := suite.T().Context()
	vendorID := uuid.New()
	row, err := suite.fx.Driver(true, true, &vendorID, 2)
	suite.Require().NoError(err)

	d, err := suite.directory.Get(ctx, kernel.MustParseUUID(row.ID.String()))

	suite.Require().NoError(err)
	suite.True(d.IsActive())
	suite.True(d.IsOnline())
	suite.Equal(2, d.AssignedOrders())
	suite.Equal(row.DeviceToken, d.DeviceToken())
	suite.Require().NotNil(d.VendorID())
	suite.Equal(vendorID, d.VendorID().Raw())
}

func (suite *DriverDirectoryIntegrationTestSuite) TestGet_Independent() {
	row, err := suite.fx.Driver(true, false, nil, 0)
	suite.Require().NoError(err)

	d, err := suite.directory.Get(suite.T().Context(), kernel.MustParseUUID(row.ID.String()))

	suite.Require().NoError(err)
	suite.Nil(d.VendorID())
	suite.False(d.IsOnline())
}

func (suite *DriverDirectoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.directory.Get(suite.T().Context(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverDirectoryIntegrationTestSuite) TestGet_NegativeCounterIsRejected() {
	row, err := suite.fx.Driver(true, true, nil, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.pg.DB.Model(&driverrepo.DriverDTO{}).
		Where("id = ?", row.ID).Update("assigned_orders", -1).Error)

	_, err = suite.directory.Get(suite.T().Context(), kernel.MustParseUUID(row.ID.String()))

	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func TestDriverDirectoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DriverDirectoryIntegrationTestSuite))
}
