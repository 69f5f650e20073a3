package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"placement-analytics/internal/cache"
	"placement-analytics/internal/common/aws"
	"placement-analytics/internal/common/config"
	"placement-analytics/internal/common/database"
	"placement-analytics/internal/common/logger"
	"placement-analytics/internal/dataset"
	"placement-analytics/internal/reporting"
	"placement-analytics/internal/snapshot"
	publishanalyticsreport "placement-analytics/internal/workers/analytics/publish-analytics-report"
)

// datasetFile is the export read from analytics.data_dir by the file store.
const datasetFile = "dataset.json"

// services holds the connected backends. Optional ones stay as untyped nil
// interfaces when disabled so consumers can test them against nil.
type services struct {
	store     dataset.Store
	cache     reporting.Cache
	snapshots reporting.SnapshotWriter
	indexer   *snapshot.Indexer
	publisher publishanalyticsreport.Publisher

	checks  []database.Pinger
	closers []func() error
}

func (s *services) Close(log *zap.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error("Error closing dependency", zap.Error(err))
		}
	}
}

func connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*services, error) {
	s := &services{}

	switch cfg.Analytics.Store {
	case config.StorePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		log.Info("PostgreSQL connected successfully")
		s.store = dataset.NewPostgresStore(pg.DB, logger.NewZapAdapter(log))
		s.checks = append(s.checks, pg)
		s.closers = append(s.closers, pg.Close)

	case config.StoreMongo:
		var mc *database.MongoClient
		err := retryWithBackoff(func() error {
			var err error
			mc, err = database.NewMongo(ctx, cfg.Database.Mongo)
			if err != nil {
				return err
			}
			return mc.Ping(ctx)
		}, 15, 2*time.Second, log, "MongoDB connection")
		if err != nil {
			return nil, err
		}
		log.Info("MongoDB connected successfully")
		s.store = dataset.NewMongoStore(mc.Database, logger.NewZapAdapter(log))
		s.checks = append(s.checks, mc)
		s.closers = append(s.closers, mc.Close)

	case config.StoreFile:
		path := filepath.Join(cfg.Analytics.DataDir, datasetFile)
		fs, err := dataset.LoadFileStore(path)
		if err != nil {
			return nil, err
		}
		log.Info("Dataset export loaded", zap.String("path", path))
		s.store = fs

	default:
		return nil, fmt.Errorf("unsupported analytics store %q", cfg.Analytics.Store)
	}

	if cfg.Analytics.CacheEnabled {
		rc := database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error {
			return rc.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			_ = rc.Close()
			return nil, err
		}
		log.Info("Redis connected successfully")
		s.cache = cache.New(rc.Client, cfg.Analytics.CacheTTLDuration())
		s.checks = append(s.checks, rc)
		s.closers = append(s.closers, rc.Close)
	}

	if cfg.Analytics.IndexSnapshots {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		log.Info("Elasticsearch connected successfully")

		s.indexer = snapshot.NewIndexer(es.Client, cfg.Analytics.SnapshotIndex)
		if err := s.indexer.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		s.snapshots = s.indexer
		s.checks = append(s.checks, es)
	}

	if cfg.Notifications.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			return nil, err
		}
		log.Info("SNS publisher configured", zap.String("topicArn", sns.TopicARN()))
		s.publisher = sns
	}

	return s, nil
}
