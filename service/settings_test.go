package service

import (
	"github.com/vaaskel/vaaskel/database"
)

func (suite *ServiceTestSuite) TestSettingsGetOrCreate() {
	user := suite.createUser("alice")

	settings, err := suite.settings.GetOrCreate(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.NotZero(settings.ID)
	suite.Equal(user.ID, settings.UserID)
	suite.Equal(database.ThemeSystem, settings.Theme, "first access defaults to SYSTEM")

	again, err := suite.settings.GetOrCreate(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal(settings.ID, again.ID, "repeated access returns the same record")
}

func (suite *ServiceTestSuite) TestSettingsGetOrCreateValidation() {
	_, err := suite.settings.GetOrCreate(suite.ctx, 0)
	suite.ErrorIs(err, ErrMissingID)

	_, err = suite.settings.GetOrCreate(suite.ctx, 4242)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestSettingsUpdateTheme() {
	user := suite.createUser("alice")

	settings, err := suite.settings.UpdateTheme(suite.ctx, user.ID, database.ThemeDark)
	suite.Require().NoError(err)
	suite.Equal(database.ThemeDark, settings.Theme)

	// The preference persists across reads.
	settings, err = suite.settings.GetOrCreate(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal(database.ThemeDark, settings.Theme)
}

func (suite *ServiceTestSuite) TestSettingsUpdateThemeValidation() {
	user := suite.createUser("alice")

	_, err := suite.settings.UpdateTheme(suite.ctx, user.ID, "NEON")
	suite.ErrorIs(err, ErrInvalidTheme)

	_, err = suite.settings.UpdateTheme(suite.ctx, 0, database.ThemeDark)
	suite.ErrorIs(err, ErrMissingID)

	_, err = suite.settings.UpdateTheme(suite.ctx, 4242, database.ThemeDark)
	suite.ErrorIs(err, ErrNotFound)
}
