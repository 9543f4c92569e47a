package dynamo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okolari/tracktimer/internal/dynamo"
)

func TestNewClient(t *testing.T) {
	t.Run("with endpoint override", func(t *testing.T) {
		client, err := dynamo.NewClient(context.Background(), dynamo.Config{
			Endpoint: "http://localhost:4566",
			Region:   "us-east-1",
			Timeout:  5 * time.Second,
		})

		require.NoError(t, err)
		assert.NotNil(t, client.DB)
	})

	t.Run("without endpoint", func(t *testing.T) {
		client, err := dynamo.NewClient(context.Background(), dynamo.Config{
			Region: "us-east-1",
		})

		require.NoError(t, err)
		assert.NotNil(t, client.DB)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	type item struct {
		Key   string `dynamodbav:"key"`
		Count int64  `dynamodbav:"count"`
		Live  bool   `dynamodbav:"live"`
	}

	av, err := dynamo.MarshalMap(item{Key: "k", Count: 7, Live: true})
	require.NoError(t, err)

	var got item
	require.NoError(t, dynamo.UnmarshalMap(av, &got))
	assert.Equal(t, item{Key: "k", Count: 7, Live: true}, got)
}
