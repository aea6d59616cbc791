package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/types"
)

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs on EC2
		// instances when static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	// Create tables in local mode
	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Str("table", cfg.AgentsTable).
		Msg("DynamoDB store initialized")

	return store, nil
}

// ListAgents scans the full agents table. The collection is small (tens of
// agents), so a paginated scan is acceptable.
func (s *DynamoDBStore) ListAgents(ctx context.Context) ([]types.AgentRecord, error) {
	var agents []types.AgentRecord
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName: aws.String(s.config.AgentsTable),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agents: %w", err)
		}

		var page []types.AgentRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal agents: %w", err)
		}
		agents = append(agents, page...)

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	for i := range agents {
		agents[i] = normalize(agents[i])
	}
	return agents, nil
}

func (s *DynamoDBStore) GetAgent(ctx context.Context, id string) (types.AgentRecord, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.AgentsTable),
		Key: map[string]dbtypes.AttributeValue{
			"AgentID": &dbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return types.AgentRecord{}, fmt.Errorf("failed to get agent: %w", err)
	}
	if result.Item == nil {
		return types.AgentRecord{}, ErrAgentNotFound
	}

	var record types.AgentRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return types.AgentRecord{}, fmt.Errorf("failed to unmarshal agent: %w", err)
	}
	return normalize(record), nil
}

// CreateAgent assigns a fresh id, applies record defaults and persists the
// agent. The conditional put guards against the id colliding with an
// existing item.
func (s *DynamoDBStore) CreateAgent(ctx context.Context, record types.AgentRecord) (string, error) {
	record.ID = uuid.New().String()
	record = normalize(record)

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal agent: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.AgentsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(AgentID)"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info().Str("agent_id", record.ID).Str("username", record.Username).Msg("agent created")
	return record.ID, nil
}

func (s *DynamoDBStore) UpdateAgent(ctx context.Context, record types.AgentRecord) error {
	if record.ID == "" {
		return ErrAgentNotFound
	}
	record = normalize(record)

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.AgentsTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(AgentID)"),
	})
	if err != nil {
		var condFailed *dbtypes.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrAgentNotFound
		}
		return fmt.Errorf("failed to update agent: %w", err)
	}
	return nil
}

// PatchAgentDays replaces the agent's full days array. The write is an
// unconditional overwrite of that one attribute: concurrent edits to the
// same agent resolve last-write-wins.
func (s *DynamoDBStore) PatchAgentDays(ctx context.Context, id string, days []string) error {
	update := expression.Set(expression.Name("Days"), expression.Value(days))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("AgentID"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.AgentsTable),
		Key: map[string]dbtypes.AttributeValue{
			"AgentID": &dbtypes.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *dbtypes.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrAgentNotFound
		}
		return fmt.Errorf("failed to patch agent days: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) DeleteAgent(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.AgentsTable),
		Key: map[string]dbtypes.AttributeValue{
			"AgentID": &dbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return nil
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, logger zerolog.Logger) (Store, error) {
	cfg := LoadDynamoConfig()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	case DynamoModeMemory:
		logger.Info().Msg("using in-memory agent store (DYNAMO_MODE=memory)")
		return NewMemStore(), nil
	default:
		logger.Info().Msg("DynamoDB disabled (DYNAMO_MODE=none)")
		return NewNoopStore(), nil
	}
}
