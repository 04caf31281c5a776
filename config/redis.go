package config

import (
	"fmt"
	"strings"
	"time"
)

// PendingStoreKind selects where pending sign-ins are kept.
type PendingStoreKind string

const (
	// PendingStoreRedis shares pending state across broker replicas.
	PendingStoreRedis PendingStoreKind = "redis"
	// PendingStoreMemory keeps pending state in-process (single replica or dev).
	PendingStoreMemory PendingStoreKind = "memory"
)

// PendingStoreConfig configures pending sign-in storage.
type PendingStoreConfig struct {
	Kind       PendingStoreKind `env:"PENDING_STORE"             envDefault:"redis"`
	TTL        time.Duration    `env:"PENDING_TTL"               envDefault:"10m"`
	MaxEntries int              `env:"PENDING_MEMORY_MAX_ENTRIES" envDefault:"10000"`
}

// Sanitize applies guardrails to pending store values.
func (c *PendingStoreConfig) Sanitize() {
	c.Kind = PendingStoreKind(strings.ToLower(strings.TrimSpace(string(c.Kind))))
	if c.TTL <= 0 || c.TTL > time.Hour {
		c.TTL = 10 * time.Minute
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 10000
	}
}

// Validate rejects unknown store kinds.
func (c *PendingStoreConfig) Validate() error {
	switch c.Kind {
	case PendingStoreRedis, PendingStoreMemory:
		return nil
	default:
		return fmt.Errorf("invalid PENDING_STORE %q (valid options: redis, memory)", c.Kind)
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"signin:"`
}
