package service

import (
	"github.com/vaaskel/vaaskel/database"
)

func (suite *ServiceTestSuite) TestBootstrapFirstStart() {
	bootstrap := NewBootstrap(suite.client, suite.users)

	suite.Require().NoError(bootstrap.FirstStart(suite.ctx, "admin", "admin"))

	rec, err := suite.users.Authenticate(suite.ctx, "admin", "admin")
	suite.Require().NoError(err)
	suite.ElementsMatch([]database.RoleType{database.RoleAdmin, database.RoleUser}, rec.Roles)
	suite.True(rec.Visible)
}

func (suite *ServiceTestSuite) TestBootstrapSkipsWhenUsersExist() {
	suite.createUser("alice")

	bootstrap := NewBootstrap(suite.client, suite.users)
	suite.Require().NoError(bootstrap.FirstStart(suite.ctx, "admin", "admin"))

	_, err := suite.users.Authenticate(suite.ctx, "admin", "admin")
	suite.ErrorIs(err, ErrBadCredentials, "no seed account is created on a populated database")

	count, err := suite.users.CountUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}

func (suite *ServiceTestSuite) TestBootstrapIsIdempotent() {
	bootstrap := NewBootstrap(suite.client, suite.users)

	suite.Require().NoError(bootstrap.FirstStart(suite.ctx, "admin", "admin"))
	suite.Require().NoError(bootstrap.FirstStart(suite.ctx, "admin", "admin"))

	count, err := suite.users.CountUsers(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
}
