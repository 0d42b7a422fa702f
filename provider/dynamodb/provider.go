// Package dynamodb is an implementation of [provider.Provider] that stores read
// models in an Amazon DynamoDB table.
package dynamodb

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/projector/projection"
	"github.com/dogmatiq/projector/provider"
	"github.com/dogmatiq/projector/provider/internal/awsx"
	"github.com/dogmatiq/projector/provider/internal/codec"
)

// Provider is an implementation of [provider.Provider] that persists read
// models in a DynamoDB table.
//
// The table must be created using [CreateTable] before the provider is used.
type Provider struct {
	// Client is the DynamoDB client to use.
	Client *dynamodb.Client

	// Table is the table name used for storage of read models.
	Table string

	// DecorateGetItem is an optional function that is called before each
	// DynamoDB "GetItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateGetItem func(*dynamodb.GetItemInput) []func(*dynamodb.Options)

	// DecoratePutItem is an optional function that is called before each
	// DynamoDB "PutItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecoratePutItem func(*dynamodb.PutItemInput) []func(*dynamodb.Options)

	// DecorateDeleteItem is an optional function that is called before each
	// DynamoDB "DeleteItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateDeleteItem func(*dynamodb.DeleteItemInput) []func(*dynamodb.Options)
}

var _ provider.Provider = (*Provider)(nil)

const (
	typeAttr     = "Type"
	idAttr       = "ID"
	revisionAttr = "Revision"
	valueAttr    = "Value"
)

// Fetch returns the read model of the given type with the given ID.
func (p *Provider) Fetch(
	ctx context.Context,
	readModelType, id string,
) (*projection.ReadModel, error) {
	out, err := awsx.Do(
		ctx,
		p.Client.GetItem,
		p.DecorateGetItem,
		&dynamodb.GetItemInput{
			TableName:            aws.String(p.Table),
			ConsistentRead:       aws.Bool(true),
			Key:                  itemKey(readModelType, id),
			ProjectionExpression: aws.String(`#R, #V`),
			ExpressionAttributeNames: map[string]string{
				"#R": revisionAttr,
				"#V": valueAttr,
			},
		},
	)
	if err != nil || out.Item == nil {
		return nil, err
	}

	revAttr, err := getAttr[*types.AttributeValueMemberN](out.Item, revisionAttr)
	if err != nil {
		return nil, err
	}

	rev, err := strconv.ParseUint(revAttr.Value, 10, 64)
	if err != nil {
		return nil, err
	}

	data, err := getAttr[*types.AttributeValueMemberB](out.Item, valueAttr)
	if err != nil {
		return nil, err
	}

	v, err := codec.Unmarshal(data.Value)
	if err != nil {
		return nil, err
	}

	return &projection.ReadModel{
		ID:       id,
		Revision: rev,
		Value:    v,
	}, nil
}

// Store persists rm.
func (p *Provider) Store(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	data, err := codec.Marshal(rm.Value)
	if err != nil {
		return err
	}

	item := itemKey(readModelType, rm.ID)
	item[revisionAttr] = revision(rm.Revision + 1)
	item[valueAttr] = &types.AttributeValueMemberB{Value: data}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(p.Table),
		Item:      item,
	}

	if rm.Revision == 0 {
		in.ConditionExpression = aws.String(`attribute_not_exists(#T)`)
		in.ExpressionAttributeNames = map[string]string{
			"#T": typeAttr,
		}
	} else {
		in.ConditionExpression = aws.String(`#R = :R`)
		in.ExpressionAttributeNames = map[string]string{
			"#R": revisionAttr,
		}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":R": revision(rm.Revision),
		}
	}

	_, err = awsx.Do(
		ctx,
		p.Client.PutItem,
		p.DecoratePutItem,
		in,
	)

	return p.translateError(err, readModelType, rm)
}

// Delete removes rm.
func (p *Provider) Delete(
	ctx context.Context,
	readModelType string,
	rm *projection.ReadModel,
) error {
	if rm == nil {
		return nil
	}

	_, err := awsx.Do(
		ctx,
		p.Client.DeleteItem,
		p.DecorateDeleteItem,
		&dynamodb.DeleteItemInput{
			TableName:           aws.String(p.Table),
			Key:                 itemKey(readModelType, rm.ID),
			ConditionExpression: aws.String(`attribute_not_exists(#T) OR #R = :R`),
			ExpressionAttributeNames: map[string]string{
				"#T": typeAttr,
				"#R": revisionAttr,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":R": revision(rm.Revision),
			},
		},
	)

	return p.translateError(err, readModelType, rm)
}

func (p *Provider) translateError(
	err error,
	readModelType string,
	rm *projection.ReadModel,
) error {
	if errors.As(err, new(*types.ConditionalCheckFailedException)) {
		return &provider.ConflictError{
			ReadModelTypeName: readModelType,
			ID:                rm.ID,
			Revision:          rm.Revision,
		}
	}
	return err
}

func itemKey(readModelType, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		typeAttr: &types.AttributeValueMemberS{Value: readModelType},
		idAttr:   &types.AttributeValueMemberS{Value: id},
	}
}

func revision(rev uint64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{
		Value: strconv.FormatUint(rev, 10),
	}
}
