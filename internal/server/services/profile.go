package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmakarenko/contactvault/internal/logging"
	sc "github.com/vmakarenko/contactvault/internal/server/config"
	"github.com/vmakarenko/contactvault/internal/server/models"
	"github.com/vmakarenko/contactvault/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

// ProfileService handles the user's avatar: presigned PUT URLs for uploading
// to the S3-compatible backend, presigned GET URLs for reading, and the
// avatar key stored on the user row.
type ProfileService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	config *sc.Config
	logger logging.Logger
}

func NewProfileService(db *sql.DB, repos repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:     db,
		repos:  repos,
		config: cfg,
		logger: logger.With("module", "profile_service"),
	}
}

func avatarStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("avatars/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ProfileService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// AvatarUploadURL returns a presigned PUT URL for a fresh storage key and
// records the key on the user row. The client uploads the image directly to
// object storage; the server never proxies the bytes.
func (s *ProfileService) AvatarUploadURL(ctx context.Context, user *models.User) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey(user.ID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	if err := s.repos.Users(s.db).UpdateAvatar(ctx, user.ID, key); err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// AvatarURL returns a presigned GET URL for the user's stored avatar, or an
// empty string when no avatar has been uploaded.
func (s *ProfileService) AvatarURL(ctx context.Context, user *models.User) (string, error) {
	if user.AvatarKey == nil {
		return "", nil
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    user.AvatarKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
