package databases

// go generate: mockery --name OTPDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ParthRana1023/ai-courtroom/models"
)

const otpName = "otps"

// OTPDatabase contains the methods to use with the otp database
type OTPDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OTP, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type otpDatabase struct {
	db DatabaseHelper
}

// NewOTPDatabase initializes a new instance of otp database with the provided db connection
func NewOTPDatabase(db DatabaseHelper) OTPDatabase {
	return &otpDatabase{
		db: db,
	}
}

func (o *otpDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OTP, error) {
	otp := &models.OTP{}
	err := o.db.Collection(otpName).FindOne(ctx, filter, opts...).Decode(&otp)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (o *otpDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return o.db.Collection(otpName).InsertOne(ctx, document, opts...)
}

func (o *otpDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return o.db.Collection(otpName).DeleteMany(ctx, filter, opts...)
}
