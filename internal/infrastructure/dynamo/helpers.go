package dynamo

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-geonotify/internal/domain"
)

// putRequests marshals deliveries into BatchWriteItem put requests, split
// into chunks no larger than size.
func putRequests(deliveries []domain.Delivery, size int) ([][]types.WriteRequest, error) {
	var chunks [][]types.WriteRequest
	for start := 0; start < len(deliveries); start += size {
		end := min(start+size, len(deliveries))
		chunk := make([]types.WriteRequest, 0, end-start)
		for _, d := range deliveries[start:end] {
			item, err := attributevalue.MarshalMap(d)
			if err != nil {
				return nil, fmt.Errorf("marshal delivery %s/%d: %w", d.BatchID, d.UserID, err)
			}
			chunk = append(chunk, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// batchKeyCondition selects every delivery of one batch.
func batchKeyCondition(batchID string) (string, map[string]string, map[string]types.AttributeValue) {
	return "#b = :b",
		map[string]string{"#b": attrBatchID},
		map[string]types.AttributeValue{":b": &types.AttributeValueMemberS{Value: batchID}}
}
