package dynamo

// Delivery ledger attribute names. They must match the dynamodbav tags on
// domain.Delivery.
const (
	attrBatchID = "batch_id"
	attrUserID  = "user_id"
)

// maxBatchWrite is the BatchWriteItem request limit.
const maxBatchWrite = 25
