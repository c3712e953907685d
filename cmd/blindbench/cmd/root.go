package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/ai8future/blindbench"
	"github.com/ai8future/blindbench/cache"
	miniocache "github.com/ai8future/blindbench/cache/minio"
	"github.com/ai8future/blindbench/internal/config"
	"github.com/ai8future/blindbench/store"
	"github.com/ai8future/blindbench/store/dynamo"
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blindbench",
		Short: "Benchmark retrieval strategies over an encrypted person dataset",
		Long: `blindbench measures where latency goes (index lookup, fetch, decryption,
scan, cache build) when searching encrypted person records by name or email
prefix, comparing blind-index, decrypt-and-scan, client-cache, and
plaintext-index strategies.

Configuration comes from environment variables: BENCH_PASSPHRASE and
BENCH_SALT are required; BENCH_KDF_PROFILE selects the parameter set
(default or pq) and must match whatever was used at index-build time.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newClearCacheCmd())
	return cmd
}

// app holds the wired collaborators shared by all commands.
type app struct {
	cfg   *config.Config
	log   *blindbench.Logger
	store store.RecordStore
	cache cache.Store
	keys  *blindbench.DerivedKeys
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := blindbench.NewTextLogger(slog.Level(cfg.LogLevel))

	params, err := blindbench.ParamsByName(cfg.Bench.KDFProfile)
	if err != nil {
		return nil, err
	}
	keys, err := blindbench.DeriveKeys(cfg.Bench.Passphrase, []byte(cfg.Bench.Salt), params)
	if err != nil {
		return nil, err
	}

	recordStore, err := newRecordStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cacheStore, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: recordStore,
		cache: cacheStore,
		keys:  keys,
	}, nil
}

func newRecordStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "dynamo":
		awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Dynamo.Region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awscfg, func(o *dynamodb.Options) {
			if cfg.Dynamo.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Dynamo.Endpoint)
			}
		})
		return dynamo.New(client, cfg.Dynamo.Table), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Endpoint == "" {
		return cache.NewMemory(), nil
	}
	client, err := minio.New(cfg.Cache.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Cache.AccessKey, cfg.Cache.SecretKey, ""),
		Secure: cfg.Cache.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return miniocache.NewStore(client, cfg.Cache.Bucket, cfg.Cache.Prefix), nil
}

// newRunner applies the policy knobs from config.
func (a *app) newRunner() (*blindbench.Runner, error) {
	return blindbench.NewRunner(a.store, a.cache, a.keys,
		blindbench.WithCacheCap(a.cfg.Bench.CacheCap),
		blindbench.WithMaxResultFetch(a.cfg.Bench.MaxResultFetch),
		blindbench.WithBatchSize(a.cfg.Bench.BatchSize),
		blindbench.WithScanPageSize(a.cfg.Bench.ScanPageSize),
		blindbench.WithLogger(a.log),
	)
}
