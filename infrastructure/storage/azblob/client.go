// Package azblob adapts Azure Blob Storage to objectstore.Client.
package azblob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/objectstore"
)

// Config configures the Azure client. ConnectionString takes precedence;
// otherwise Account is used with the default Azure credential chain.
type Config struct {
	Container        string
	ConnectionString string
	Account          string
}

// Client implements objectstore.Client for one container.
type Client struct {
	client    *azblob.Client
	container string
}

// NewClient creates an Azure Blob client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Container == "" {
		return nil, errors.New("azure container is required")
	}

	var (
		client *azblob.Client
		err    error
	)
	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	case cfg.Account != "":
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("azure credential: %w", credErr)
		}
		client, err = azblob.NewClient(fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Account), cred, nil)
	default:
		return nil, errors.New("azure publishing needs AZURE_STORAGE_CONNECTION_STRING or AZURE_STORAGE_ACCOUNT")
	}
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}
	return &Client{client: client, container: cfg.Container}, nil
}

// Upload implements objectstore.Client.
func (c *Client) Upload(ctx context.Context, key string, content io.Reader, contentType string) error {
	bb := c.client.ServiceClient().NewContainerClient(c.container).NewBlockBlobClient(key)

	opts := &blockblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := bb.UploadStream(ctx, content, opts); err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	return nil
}

// Download implements objectstore.Client.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := c.client.DownloadStream(ctx, c.container, key, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, objectstore.ErrObjectNotFound
		}
		return nil, fmt.Errorf("download blob: %w", err)
	}
	return resp.Body, nil
}

// Delete implements objectstore.Client.
func (c *Client) Delete(ctx context.Context, key string) error {
	if _, err := c.client.DeleteBlob(ctx, c.container, key, nil); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Exists implements objectstore.Client.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	bc := c.client.ServiceClient().NewContainerClient(c.container).NewBlobClient(key)
	if _, err := bc.GetProperties(ctx, nil); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("blob properties: %w", err)
	}
	return true, nil
}

// URL implements objectstore.Client.
func (c *Client) URL(key string) string {
	return "azblob://" + c.container + "/" + key
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

var _ objectstore.Client = (*Client)(nil)
