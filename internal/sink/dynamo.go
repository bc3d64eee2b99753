package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"reviewpulse/internal/models"
)

const (
	headerKey = "header"
	seqKey    = "row_seq"
)

// HeaderColumns is the header row written when the table is first
// provisioned, mirroring the spreadsheet contract.
var HeaderColumns = []string{"Timestamp", "Review", "Sentiment", "Meta"}

// DynamoStore appends log records to a DynamoDB table, one item per row.
// Row numbering is spreadsheet-style: the header is row 1 and appended
// records start at row 2.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

type logRow struct {
	PK        string `dynamodbav:"pk"`
	Row       int    `dynamodbav:"row"`
	Timestamp string `dynamodbav:"ts_iso"`
	Review    string `dynamodbav:"review"`
	Sentiment string `dynamodbav:"sentiment"`
	Meta      string `dynamodbav:"meta"`
	CreatedAt int64  `dynamodbav:"created_at"`
}

// EnsureTable creates the backing table and writes the header marker item
// when the table does not exist yet. Safe to call on every startup.
func (s *DynamoStore) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		slog.Info("[DynamoStore] Table exists", slog.String("table", s.table))
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("[DynamoStore] failed to describe table: %w", err)
	}

	slog.Info("[DynamoStore] Table not found, creating...", slog.String("table", s.table))
	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("[DynamoStore] failed to create table: %w", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("[DynamoStore] timed out waiting for table: %w", err)
	}

	if err := s.writeHeader(ctx); err != nil {
		return err
	}

	slog.Info("[DynamoStore] Table created with header row", slog.String("table", s.table))
	return nil
}

func (s *DynamoStore) writeHeader(ctx context.Context) error {
	columns := make([]types.AttributeValue, 0, len(HeaderColumns))
	for _, c := range HeaderColumns {
		columns = append(columns, &types.AttributeValueMemberS{Value: c})
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"pk":      &types.AttributeValueMemberS{Value: headerKey},
			"row":     &types.AttributeValueMemberN{Value: "1"},
			"columns": &types.AttributeValueMemberL{Value: columns},
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoStore] failed to write header row: %w", err)
	}
	return nil
}

// Append stores one record and returns its row index. The index comes
// from an atomic counter item so concurrent appends never collide.
func (s *DynamoStore) Append(ctx context.Context, record models.LogRecord) (int, error) {
	row, err := s.nextRow(ctx)
	if err != nil {
		return 0, err
	}

	item, err := attributevalue.MarshalMap(logRow{
		PK:        uuid.NewString(),
		Row:       row,
		Timestamp: record.TsISO,
		Review:    record.Review,
		Sentiment: record.Sentiment,
		Meta:      record.Meta,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return 0, fmt.Errorf("[DynamoStore] failed to marshal row: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return 0, fmt.Errorf("[DynamoStore] failed to append row: %w", err)
	}

	slog.Info("[DynamoStore] Row appended",
		slog.String("table", s.table),
		slog.Int("row", row))
	return row, nil
}

// nextRow bumps the sequence item and converts it to a spreadsheet-style
// row index (header = row 1, first record = row 2).
func (s *DynamoStore) nextRow(ctx context.Context) (int, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: seqKey},
		},
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("[DynamoStore] failed to advance row sequence: %w", err)
	}

	seqAttr, ok := out.Attributes["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("[DynamoStore] row sequence attribute missing")
	}
	seq, err := strconv.Atoi(seqAttr.Value)
	if err != nil {
		return 0, fmt.Errorf("[DynamoStore] invalid row sequence value: %w", err)
	}

	return seq + 1, nil
}
