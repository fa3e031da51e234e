package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/x-xyz/listings/base/log"
)

const (
	defaultSocketTimeout  = 60 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// Config mirrors the mongo.* keys of the service config
type Config struct {
	Uri        string
	AuthDBName string
	DbName     string
	EnableSSL  bool
	// Majority waits for a majority of the replica set on every write
	Majority bool
	// PoolSizeMultiplier scales runtime.NumCPU() into the total pool size
	PoolSizeMultiplier float64
	ConnectTimeout     time.Duration
}

// Client is a connected mongo.Client bound to one database
type Client struct {
	DbName string
	*mongo.Client
}

// MustConnect panics when Connect fails
func MustConnect(ctx context.Context, cfg Config) *Client {
	cli, err := Connect(ctx, cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"db": cfg.DbName, "err": err}).Panic("fail to dial mongo")
	}
	return cli
}

func clientOptions(cfg Config, conn connstring.ConnString) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.Uri).
		SetSocketTimeout(defaultSocketTimeout).
		SetRetryWrites(true)

	if conn.Username != "" && conn.AuthSource == "" {
		opts.SetAuth(options.Credential{
			AuthMechanism:           conn.AuthMechanism,
			AuthMechanismProperties: conn.AuthMechanismProperties,
			Username:                conn.Username,
			Password:                conn.Password,
			PasswordSet:             conn.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	if n := poolSize(cfg.PoolSizeMultiplier, len(conn.Hosts)); n > 0 {
		opts.SetMinPoolSize(uint64(n / 4))
		opts.SetMaxPoolSize(uint64(n))
	}
	if cfg.EnableSSL {
		opts.SetTLSConfig(&tls.Config{})
	}
	if cfg.Majority {
		opts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}
	return opts
}

// poolSize is the per host pool size, every host keeps a pool of its own
func poolSize(multiplier float64, hosts int) int {
	if multiplier <= 0 || hosts <= 0 {
		return 0
	}
	total := int(float64(runtime.NumCPU()) * multiplier)
	return (total + hosts - 1) / hosts
}

// Connect dials mongo and checks that cfg.DbName is readable
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := connstring.Parse(cfg.Uri)
	if err != nil {
		log.Log().WithFields(log.Fields{"db": cfg.DbName, "err": err}).Error("fail to parse connstring")
		return nil, err
	}
	logger := log.Log().WithFields(log.Fields{"hosts": conn.Hosts, "db": cfg.DbName})

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(cfg, conn))
	if err != nil {
		logger.WithField("err", err).Error("fail to connect mongo")
		return nil, err
	}
	if _, err := client.Database(cfg.DbName).ListCollectionNames(ctx, bson.D{}); err != nil {
		logger.WithField("err", err).Error("fail to list collections")
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo connected")
	return &Client{DbName: cfg.DbName, Client: client}, nil
}

// Database is the database the client was configured with
func (c *Client) Database() *mongo.Database {
	return c.Client.Database(c.DbName)
}

// Ping asks the primary for a round trip
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	if err := c.Disconnect(ctx); err != nil {
		log.Log().WithFields(log.Fields{"db": c.DbName, "err": err}).Error("fail to disconnect mongo")
		return err
	}
	return nil
}
