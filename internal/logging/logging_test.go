package logging

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	assert := require.New(t)

	assert.Equal(uuid.Nil, ContextID(context.Background()))

	ctx, err := NewContext(context.Background())
	assert.NoError(err)
	assert.NotEqual(uuid.Nil, ContextID(ctx))

	ctx2, err := NewContext(context.Background())
	assert.NoError(err)
	assert.NotEqual(ContextID(ctx), ContextID(ctx2))
}
