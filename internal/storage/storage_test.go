package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/test"
)

type StorageTestSuite struct {
	suite.Suite
}

func (ts *StorageTestSuite) SetupSuite() {
	conf := test.GetConfig()
	if len(conf.Redis.Servers) == 0 {
		ts.T().Skip("TEST_REDIS_URL is not set")
	}

	ts.Require().NoError(Setup(conf))
}

func (ts *StorageTestSuite) SetupTest() {
	test.MustFlushRedis(RedisClient())
}

func TestStorage(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func TestSetupDisabled(t *testing.T) {
	assert := require.New(t)

	var c config.Config
	c.Redis.KeyPrefix = "prefix:"
	assert.NoError(Setup(c))
	assert.False(Enabled())
	assert.Nil(RedisClient())
	assert.Equal("prefix:radio:registry:state", GetRedisKey(stateKeyTempl))
}
