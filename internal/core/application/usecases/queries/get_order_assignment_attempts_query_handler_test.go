package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AssignmentAttemptQueriesTestSuite struct {
	suite.Suite
	pg *pgtest.Database
}

func (suite *AssignmentAttemptQueriesTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *AssignmentAttemptQueriesTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *AssignmentAttemptQueriesTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *AssignmentAttemptQueriesTestSuite) insert(orderID, driverID uuid.UUID, status string, at time.Time) uuid.UUID {
	row := assignmentrepo.AttemptDTO{ID: uuid.New(), OrderID: orderID, DriverID: driverID, Status: status, CreatedAt: at}
	suite.Require().NoError(suite.pg.DB.Create(&row).Error)
	return row.ID
}

func (suite *AssignmentAttemptQueriesTestSuite) TestOrderAttempts_EmptyLedger() {
	query, err := queries.NewGetOrderAssignmentAttemptsQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	views, err := queries.NewGetOrderAssignmentAttemptsQueryHandler(suite.pg.DB).Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.NotNil(views)
	suite.Empty(views)
}

func (suite *AssignmentAttemptQueriesTestSuite) TestOrderAttempts_OldestFirst() {
	orderID := uuid.New()
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	later := suite.insert(orderID, uuid.New(), "pending", t0.Add(time.Minute))
	earlier := suite.insert(orderID, uuid.New(), "rejected", t0)
	suite.insert(uuid.New(), uuid.New(), "pending", t0)

	query, err := queries.NewGetOrderAssignmentAttemptsQuery(kernel.MustParseUUID(orderID.String()))
	suite.Require().NoError(err)
	views, err := queries.NewGetOrderAssignmentAttemptsQueryHandler(suite.pg.DB).Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.Equal(earlier, views[0].ID.Raw())
	suite.Equal("rejected", views[0].Status)
	suite.Equal(later, views[1].ID.Raw())
	suite.True(views[0].CreatedAt.Equal(t0))
}

func (suite *AssignmentAttemptQueriesTestSuite) TestOrderAttempts_KeepsStatusesWrittenElsewhere() {
	orderID := uuid.New()
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	suite.insert(orderID, uuid.New(), "accepted", t0)
	suite.insert(orderID, uuid.New(), "declined", t0.Add(time.Second))

	query, err := queries.NewGetOrderAssignmentAttemptsQuery(kernel.MustParseUUID(orderID.String()))
	suite.Require().NoError(err)
	views, err := queries.NewGetOrderAssignmentAttemptsQueryHandler(suite.pg.DB).Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.Equal("accepted", views[0].Status)
	suite.Equal("declined", views[1].Status)
}

func (suite *AssignmentAttemptQueriesTestSuite) TestPendingOffers() {
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	pending := suite.insert(uuid.New(), uuid.New(), "pending", t0)
	suite.insert(uuid.New(), uuid.New(), "rejected", t0)

	views, err := queries.NewGetPendingOffersQueryHandler(suite.pg.DB).Handle(suite.T().Context(), queries.NewGetPendingOffersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(pending, views[0].ID.Raw())
}

func (suite *AssignmentAttemptQueriesTestSuite) TestRejectsUnconstructedQuery() {
	_, err := queries.NewGetPendingOffersQueryHandler(suite.pg.DB).Handle(suite.T().Context(), queries.GetPendingOffersQuery{})

	suite.ErrorIs(err, queries.ErrGetPendingOffersQueryIsNotConstructed)
}

func TestAssignmentAttemptQueriesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AssignmentAttemptQueriesTestSuite))
}
