// Package s3 хранит аудиофайлы альбома в S3-совместимом хранилище
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

type uploadAPI interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type objectAPI interface {
	DeleteObjectWithContext(ctx context.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// Storage загружает и удаляет объекты в бакете
type Storage struct {
	uploader uploadAPI
	client   objectAPI
	config   Config
}

// NewStorage создает клиент хранилища
func NewStorage(config Config) (*Storage, error) {
	if config.BucketName == "" {
		return nil, fmt.Errorf("не указан bucket_name")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Для S3-совместимых хранилищ используем path-style адреса
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return newStorage(config, s3manager.NewUploader(sess), s3.New(sess)), nil
}

func newStorage(config Config, uploader uploadAPI, client objectAPI) *Storage {
	return &Storage{uploader: uploader, client: client, config: config}
}

// UploadFile загружает содержимое reader под ключом key и возвращает публичный URL
func (s *Storage) UploadFile(ctx context.Context, reader io.Reader, key, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	return s.ObjectURL(key), nil
}

// DeleteFile удаляет файл из S3
func (s *Storage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}
	return nil
}

// ObjectURL возвращает публичный адрес объекта
func (s *Storage) ObjectURL(key string) string {
	return s.baseURL() + key
}

// KeyFromURL возвращает ключ объекта, если URL указывает в этот бакет
func (s *Storage) KeyFromURL(url string) (string, bool) {
	base := s.baseURL()
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	return key, key != ""
}

func (s *Storage) baseURL() string {
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/", strings.TrimRight(s.config.Endpoint, "/"), s.config.BucketName)
	}
	region := s.config.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.config.BucketName, region)
}
