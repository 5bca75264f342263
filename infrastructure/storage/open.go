// Package storage opens the artifact store named by a publish target URI.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/felixgeelhaar/worksheet-go/domain/artifact"
	domainconfig "github.com/felixgeelhaar/worksheet-go/domain/config"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/azblob"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/filesystem"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/gcs"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/objectstore"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/s3"
)

// Target is a parsed publish destination.
type Target struct {
	Scheme string
	// Bucket is the bucket or container; empty for file targets.
	Bucket string
	// Path is the object prefix, or the directory for file targets.
	Path string
}

// ParseTarget parses file://dir, gs://bucket/prefix, s3://bucket/prefix
// and azblob://container/prefix.
func ParseTarget(raw string) (Target, error) {
	if rest, ok := strings.CutPrefix(raw, "file://"); ok {
		if rest == "" {
			return Target{}, fmt.Errorf("%w: %s: missing directory", artifact.ErrUnsupportedTarget, raw)
		}
		return Target{Scheme: "file", Path: rest}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %s: %w", artifact.ErrUnsupportedTarget, raw, err)
	}
	switch u.Scheme {
	case "gs", "s3", "azblob":
	default:
		return Target{}, fmt.Errorf("%w: %s", artifact.ErrUnsupportedTarget, raw)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("%w: %s: missing bucket", artifact.ErrUnsupportedTarget, raw)
	}
	return Target{Scheme: u.Scheme, Bucket: u.Host, Path: strings.Trim(u.Path, "/")}, nil
}

// Open returns the artifact store for target.
func Open(ctx context.Context, raw string, cfg domainconfig.PublishConfig) (artifact.Store, error) {
	t, err := ParseTarget(raw)
	if err != nil {
		return nil, err
	}

	var client objectstore.Client
	switch t.Scheme {
	case "file":
		return filesystem.NewArtifactStore(t.Path)
	case "gs":
		client, err = gcs.NewClient(ctx, gcs.Config{Bucket: t.Bucket, CredentialsFile: cfg.CredentialsFile})
	case "s3":
		client, err = s3.NewClient(ctx, s3.Config{
			Bucket:          t.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	case "azblob":
		client, err = azblob.NewClient(azblob.Config{
			Container:        t.Bucket,
			ConnectionString: cfg.AzureConnectionString,
			Account:          cfg.AzureAccount,
		})
	}
	if err != nil {
		return nil, err
	}
	return objectstore.NewArtifactStore(client, t.Path)
}
