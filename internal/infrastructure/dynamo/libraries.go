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

// LibraryRepo provides typed DynamoDB operations for the external libraries table.
type LibraryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLibraryRepo(client *dynamodb.Client, tableName string) *LibraryRepo {
	return &LibraryRepo{client: client, tableName: tableName}
}

func (r *LibraryRepo) Put(ctx context.Context, l *domain.ExternalLibrary) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *LibraryRepo) Get(ctx context.Context, libraryID string) (*domain.ExternalLibrary, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("library_id", libraryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("library not found: %w", domain.ErrNotFound)
	}
	var l domain.ExternalLibrary
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LibraryRepo) Update(ctx context.Context, libraryID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("library_id", libraryID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// ListByStatus returns libraries in the given status via the status-index GSI.
func (r *LibraryRepo) ListByStatus(ctx context.Context, status string) ([]domain.ExternalLibrary, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-index"),
		KeyConditionExpression: aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		return nil, err
	}
	var libs []domain.ExternalLibrary
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &libs); err != nil {
		return nil, err
	}
	return libs, nil
}

// Scan returns all libraries regardless of status.
func (r *LibraryRepo) Scan(ctx context.Context) ([]domain.ExternalLibrary, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var libs []domain.ExternalLibrary
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &libs); err != nil {
		return nil, err
	}
	return libs, nil
}
