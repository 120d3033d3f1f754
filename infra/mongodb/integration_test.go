//go:build integration

package mongodb_test

import (
	"testing"

	"github.com/amirasaad/strides/infra/mongodb"
	"github.com/amirasaad/strides/internal/storetest"
	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/testutils"
	"github.com/stretchr/testify/suite"
)

func TestMongoStore(t *testing.T) {
	client := testutils.SetupMongo(t)
	suite.Run(t, &storetest.Suite{
		NewUoW: func() repository.UnitOfWork {
			return mongodb.NewUoW(client, testutils.MongoDatabase)
		},
	})
}
