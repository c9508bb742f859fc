package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-geonotify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveries(n int) []domain.Delivery {
	out := make([]domain.Delivery, n)
	for i := range out {
		out[i] = domain.Delivery{
			BatchID:    "01J0BATCH",
			UserID:     int64(i + 1),
			CampaignID: 7,
			Email:      "u@example.com",
			Status:     domain.DeliverySent,
			CreatedAt:  time.Unix(1700000000, 0).UTC(),
		}
	}
	return out
}

func TestPutRequests_Chunks(t *testing.T) {
	chunks, err := putRequests(deliveries(60), maxBatchWrite)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 25)
	assert.Len(t, chunks[1], 25)
	assert.Len(t, chunks[2], 10)
}

func TestPutRequests_Empty(t *testing.T) {
	chunks, err := putRequests(nil, maxBatchWrite)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestPutRequests_KeyAttributes(t *testing.T) {
	chunks, err := putRequests(deliveries(1), maxBatchWrite)
	require.NoError(t, err)
	item := chunks[0][0].PutRequest.Item

	batch, ok := item[attrBatchID].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "01J0BATCH", batch.Value)

	user, ok := item[attrUserID].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1", user.Value)

	_, hasError := item["error"]
	assert.False(t, hasError)
}

func TestBatchKeyCondition(t *testing.T) {
	expr, names, values := batchKeyCondition("B1")
	assert.Equal(t, "#b = :b", expr)
	assert.Equal(t, map[string]string{"#b": "batch_id"}, names)
	v, ok := values[":b"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "B1", v.Value)
}
