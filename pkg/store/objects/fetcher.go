package objects

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultRegion = "eu-west-1"

	// MaxObjectSize caps a fetched workbook.
	MaxObjectSize = 64 << 20
)

type Settings struct {
	AWSProfile      string
	AWSRegion       string
	AzureAccountURL string
	// AllowLocal permits plain paths and file:// sources.
	AllowLocal bool
}

type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type BlobAPI interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// Fetcher reads workbooks from local paths, s3://bucket/key or az://container/blob.
// Cloud clients are created on first use.
type Fetcher struct {
	settings Settings

	mu   sync.Mutex
	s3   S3API
	blob BlobAPI
}

func NewFetcher(settings Settings) *Fetcher {
	return &Fetcher{settings: settings}
}

func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("scheme", loc.Scheme).Str("bucket", loc.Bucket).Str("key", loc.Key).Msg("fetching workbook")

	var body io.ReadCloser
	switch loc.Scheme {
	case SchemeFile:
		if !f.settings.AllowLocal {
			return nil, fmt.Errorf("%w: local sources are disabled", domain.ErrInvalidInput)
		}
		file, err := os.Open(loc.Key)
		if err != nil {
			return nil, err
		}
		body = file
	case SchemeS3:
		client, err := f.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(loc.Bucket),
			Key:    aws.String(loc.Key),
		})
		if err != nil {
			return nil, fmt.Errorf("get s3 object: %w", err)
		}
		body = out.Body
	case SchemeAzure:
		client, err := f.blobClient()
		if err != nil {
			return nil, err
		}
		resp, err := client.DownloadStream(ctx, loc.Bucket, loc.Key, nil)
		if err != nil {
			return nil, fmt.Errorf("download blob: %w", err)
		}
		body = resp.Body
	}
	defer func() {
		if err := body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close object body")
		}
	}()

	data, err := io.ReadAll(io.LimitReader(body, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	if len(data) > MaxObjectSize {
		return nil, fmt.Errorf("%w: object exceeds %d bytes", domain.ErrInvalidInput, MaxObjectSize)
	}
	return data, nil
}

func (f *Fetcher) s3Client(ctx context.Context) (S3API, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.s3 != nil {
		return f.s3, nil
	}

	region := f.settings.AWSRegion
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if f.settings.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(f.settings.AWSProfile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	f.s3 = s3.NewFromConfig(cfg)
	return f.s3, nil
}

func (f *Fetcher) blobClient() (BlobAPI, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.blob != nil {
		return f.blob, nil
	}
	if f.settings.AzureAccountURL == "" {
		return nil, fmt.Errorf("%w: objects.azure_account_url is not configured", domain.ErrInvalidInput)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
	}
	client, err := azblob.NewClient(f.settings.AzureAccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	f.blob = client
	return f.blob, nil
}

const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeAzure = "az"
)

// Location is a parsed source URI. Bucket holds the S3 bucket or Azure container;
// for local files Key is the path.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

func Parse(uri string) (Location, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Location{}, fmt.Errorf("%w: source is required", domain.ErrInvalidInput)
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Key: uri}, nil
	}

	scheme, rest, _ := strings.Cut(uri, "://")
	switch scheme {
	case SchemeFile:
		return Location{Scheme: SchemeFile, Key: rest}, nil
	case SchemeS3, SchemeAzure:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %s needs a bucket and a key", domain.ErrInvalidInput, uri)
		}
		return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported source scheme %q", domain.ErrInvalidInput, scheme)
	}
}
