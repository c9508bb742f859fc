package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-geonotify/internal/domain"
)

// unprocessedRetries bounds how many times throttled items are resubmitted.
const unprocessedRetries = 3

// DeliveryRepo stores per-recipient delivery outcomes keyed by (batch_id, user_id).
type DeliveryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeliveryRepo(client *dynamodb.Client, tableName string) *DeliveryRepo {
	return &DeliveryRepo{client: client, tableName: tableName}
}

// Record writes all deliveries of a batch.
func (r *DeliveryRepo) Record(ctx context.Context, deliveries []domain.Delivery) error {
	chunks, err := putRequests(deliveries, maxBatchWrite)
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		pending := map[string][]types.WriteRequest{r.tableName: chunk}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt > unprocessedRetries {
				return fmt.Errorf("batch write: %d items left unprocessed", len(pending[r.tableName]))
			}
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch write: %w", err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// List returns every delivery of batchID ordered by user id.
func (r *DeliveryRepo) List(ctx context.Context, batchID string) ([]domain.Delivery, error) {
	cond, names, values := batchKeyCondition(batchID)
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})

	deliveries := []domain.Delivery{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query deliveries: %w", err)
		}
		var items []domain.Delivery
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal deliveries: %w", err)
		}
		deliveries = append(deliveries, items...)
	}
	return deliveries, nil
}
