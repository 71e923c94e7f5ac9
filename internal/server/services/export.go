package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	sc "github.com/dmitrijs2005/pymax/internal/server/config"
	"github.com/dmitrijs2005/pymax/internal/server/models"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ExportURLExpiry is how long a presigned export download stays valid.
const ExportURLExpiry = 15 * time.Minute

var exportHeader = []string{"date", "kind", "category", "amount", "client", "note"}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export points at an uploaded CSV of ledger rows.
type Export struct {
	Key  string
	URL  string
	Rows int
}

// ExportService renders a date range of the ledger as CSV and stores it in
// S3-compatible object storage.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewExportService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func exportKey(start, end string) string {
	return fmt.Sprintf("exports/%s_to_%s/%v.csv", start, end, uuid.New())
}

func (s *ExportService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// RenderCSV writes rows with a header line. Amounts use the shortest
// representation that round-trips.
func RenderCSV(rows []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{r.Date, r.Kind, r.Category, strconv.FormatFloat(r.Amount, 'f', -1, 64), r.Client, r.Note}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportRange uploads the rows of [start, end] as CSV and returns the object
// key with a presigned download URL.
func (s *ExportService) ExportRange(ctx context.Context, start, end string) (*Export, error) {
	start, end, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repomanager.Transactions(s.db).FindRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}

	body, err := RenderCSV(rows)
	if err != nil {
		return nil, fmt.Errorf("error rendering csv: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := exportKey(start, end)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportURLExpiry))
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &Export{Key: key, URL: req.URL, Rows: len(rows)}, nil
}
