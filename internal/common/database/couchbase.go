// internal/common/database/couchbase.go
package database

import (
	"context"
	"fmt"
	"time"

	"lead-summarizer/internal/common/config"

	"github.com/couchbase/gocb/v2"
)

// CouchbaseClient holds the cluster handle and the collection documents live in.
type CouchbaseClient struct {
	Cluster    *gocb.Cluster
	Bucket     *gocb.Bucket
	Collection *gocb.Collection
}

// NewCouchbase connects to the cluster and waits for the bucket to come up.
func NewCouchbase(cfg config.CouchbaseConfig) (*CouchbaseClient, error) {
	cluster, err := gocb.Connect(cfg.ConnectionString, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to couchbase: %w", err)
	}

	bucket := cluster.Bucket(cfg.Bucket)
	if err := bucket.WaitUntilReady(config.GetDuration(cfg.ConnectTimeout), nil); err != nil {
		_ = cluster.Close(nil)
		return nil, fmt.Errorf("couchbase bucket %s not ready: %w", cfg.Bucket, err)
	}

	return &CouchbaseClient{
		Cluster:    cluster,
		Bucket:     bucket,
		Collection: bucket.Scope(cfg.Scope).Collection(cfg.Collection),
	}, nil
}

// Ping checks the key-value service of the bucket.
func (c *CouchbaseClient) Ping(ctx context.Context) error {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	res, err := c.Bucket.Ping(&gocb.PingOptions{
		ServiceTypes: []gocb.ServiceType{gocb.ServiceTypeKeyValue},
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("couchbase ping failed: %w", err)
	}

	for _, reports := range res.Services {
		for _, report := range reports {
			if report.State != gocb.PingStateOk {
				return fmt.Errorf("couchbase endpoint %s is %v", report.Remote, report.State)
			}
		}
	}
	return nil
}

// Close closes the cluster connection
func (c *CouchbaseClient) Close() error {
	if c.Cluster != nil {
		return c.Cluster.Close(nil)
	}
	return nil
}
