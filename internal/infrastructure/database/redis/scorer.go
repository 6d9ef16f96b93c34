package redis

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/domain/similarity"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// CachingScorer answers repeated queries from the cache.  The key covers the
// query fingerprints, the database contents and every scoring parameter, so
// molecules with identical fingerprints share one entry.  Cache errors are
// logged and the inner scorer is used.
type CachingScorer struct {
	inner   similarity.Scorer
	cache   Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.PredictionMetrics

	group   singleflight.Group
	digests sync.Map // blobID -> [sha256.Size]byte
}

var _ similarity.Scorer = (*CachingScorer)(nil)

// NewCachingScorer wraps inner.  A zero ttl uses the cache default.  metrics
// may be nil.
func NewCachingScorer(inner similarity.Scorer, cache Cache, ttl time.Duration, logger logging.Logger, metrics *prometheus.PredictionMetrics) *CachingScorer {
	return &CachingScorer{inner: inner, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

// Score implements similarity.Scorer.
func (s *CachingScorer) Score(ctx context.Context, req *similarity.Request) ([]similarity.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	frags, err := fingerprint.ReadQueryFile(req.QueryPath)
	if err != nil {
		return nil, err
	}
	key := s.key(frags, req)

	var cached []similarity.Entry
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		s.metrics.RecordCacheLookup(true)
		return cached, nil
	case !isMiss(err):
		s.logger.Warn("score cache read failed", logging.String("key", key), logging.Err(err))
	}
	s.metrics.RecordCacheLookup(false)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		entries, err := s.inner.Score(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, entries, s.ttl); err != nil {
			s.logger.Warn("score cache write failed", logging.String("key", key), logging.Err(err))
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]similarity.Entry), nil
}

func isMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

type blobID struct {
	p *byte
	n int
}

// digest hashes a database blob once per backing array.
func (s *CachingScorer) digest(blob []byte) [sha256.Size]byte {
	id := blobID{n: len(blob)}
	if len(blob) > 0 {
		id.p = &blob[0]
	}
	if d, ok := s.digests.Load(id); ok {
		return d.([sha256.Size]byte)
	}
	d := sha256.Sum256(blob)
	s.digests.Store(id, d)
	return d
}

func (s *CachingScorer) key(frags []fingerprint.Fragment, req *similarity.Request) string {
	h := sha256.New()
	var buf [8]byte
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(len(frags)))
	for _, f := range frags {
		writeUint(uint64(f.BitLength))
		h.Write(f.Bytes)
	}
	for _, db := range req.Databases {
		d := s.digest(db)
		h.Write(d[:])
	}
	for _, t := range req.Thresholds {
		writeUint(math.Float64bits(t))
	}
	writeUint(math.Float64bits(req.ConsensusThreshold))
	if req.Consensus {
		writeUint(1)
	} else {
		writeUint(0)
	}
	return "score:" + hex.EncodeToString(h.Sum(nil))
}

//Personal.AI order the ending
