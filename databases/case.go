package databases

// go generate: mockery --name CaseDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ParthRana1023/ai-courtroom/models"
)

const caseName = "cases"

// CaseDatabase contains the methods to use with the cases database
type CaseDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Case, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Case, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type caseDatabase struct {
	db DatabaseHelper
}

// NewCaseDatabase initializes a new instance of case database with the provided db connection
func NewCaseDatabase(db DatabaseHelper) CaseDatabase {
	return &caseDatabase{
		db: db,
	}
}

func (c *caseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Case, error) {
	courtCase := &models.Case{}
	err := c.db.Collection(caseName).FindOne(ctx, filter, opts...).Decode(&courtCase)
	if err != nil {
		return nil, err
	}
	return courtCase, nil
}

func (c *caseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Case, error) {
	var cases []models.Case
	curr, err := c.db.Collection(caseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *caseDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(caseName).CountDocuments(ctx, filter, opts...)
}

func (c *caseDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(caseName).InsertOne(ctx, document, opts...)
	return res, err
}

func (c *caseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(caseName).UpdateOne(ctx, filter, update, opts...)
}

func (c *caseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(caseName).DeleteOne(ctx, filter, opts...)
}
