package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SubmissionRepo provides typed DynamoDB operations for the submissions audit table.
type SubmissionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubmissionRepo(client *dynamodb.Client, tableName string) *SubmissionRepo {
	return &SubmissionRepo{client: client, tableName: tableName}
}

func (r *SubmissionRepo) Put(ctx context.Context, s *domain.SubmissionRecord) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SubmissionRepo) Get(ctx context.Context, submissionID string) (*domain.SubmissionRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("submission_id", submissionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("submission not found: %w", domain.ErrNotFound)
	}
	var s domain.SubmissionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepo) Update(ctx context.Context, submissionID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("submission_id", submissionID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// MarkCompleted records where the generated PDF ended up. localPath is only
// non-empty when the development fallback store was used.
func (r *SubmissionRepo) MarkCompleted(ctx context.Context, submissionID, pdfFilename, storageKey, storageURL, localPath string) error {
	updates := map[string]interface{}{
		fieldStatus:      domain.SubmissionCompleted,
		fieldPDFFilename: pdfFilename,
		fieldStorageKey:  storageKey,
		fieldStorageURL:  storageURL,
	}
	if localPath != "" {
		updates[fieldLocalPath] = localPath
	}
	return r.Update(ctx, submissionID, updates)
}

// MarkFailed flags a submission whose pipeline did not complete.
func (r *SubmissionRepo) MarkFailed(ctx context.Context, submissionID string) error {
	return r.Update(ctx, submissionID, map[string]interface{}{fieldStatus: domain.SubmissionFailed})
}

// Delete removes an audit record outright.
func (r *SubmissionRepo) Delete(ctx context.Context, submissionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("submission_id", submissionID),
	})
	return err
}

// ListByEmail returns every audit record for an email via the email-index GSI.
func (r *SubmissionRepo) ListByEmail(ctx context.Context, email string) ([]domain.SubmissionRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("email-index"),
		KeyConditionExpression: aws.String("email = :e"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, err
	}
	var records []domain.SubmissionRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Scan returns all audit records. The table stays small enough (one row per
// submission) that the admin listing does not need pagination yet.
func (r *SubmissionRepo) Scan(ctx context.Context) ([]domain.SubmissionRecord, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var records []domain.SubmissionRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}
