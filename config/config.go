// Package config builds the startup configuration document consumed by the backend.
package config

import (
	"os"
	"strings"
)

// Environment variables read by Load.
const (
	EnvNodeEnv          = "NODE_ENV"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvRedisURL         = "REDIS_URL"
	EnvAdminBackendURL  = "MEDUSA_BACKEND_URL"
	EnvMinioEnabled     = "MINIO_PLUGIN_ENABLED"
	EnvMinioEndpoint    = "MINIO_ENDPOINT"
	EnvMinioBucket      = "MINIO_BUCKET"
	EnvMinioAccessKey   = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey   = "MINIO_SECRET_KEY"
	EnvMinioPrivBucket  = "MINIO_PRIVATE_BUCKET"
	EnvMinioPrivAccess  = "MINIO_PRIVATE_ACCESS_KEY"
	EnvMinioPrivSecret  = "MINIO_PRIVATE_SECRET_KEY"
	MinioPluginResolver = "medusa-file-minio"
)

// Database driver options are fixed: self-hosted Postgres under Docker
// usually has no TLS, and the backend refuses to start if it tries.
const (
	DatabaseSSL     = false
	DatabaseSSLMode = "disable"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// StartupConfig is the configuration document consumed by the backend at startup.
type StartupConfig struct {
	ProjectConfig ProjectConfig  `json:"projectConfig" yaml:"projectConfig"`
	Admin         AdminConfig    `json:"admin" yaml:"admin"`
	Plugins       []PluginConfig `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// ProjectConfig holds the database and cache connections.
type ProjectConfig struct {
	Database              DatabaseConfig `json:"database" yaml:"database"`
	DatabaseDriverOptions DriverOptions  `json:"databaseDriverOptions" yaml:"databaseDriverOptions"`
	RedisURL              string         `json:"redisUrl,omitempty" yaml:"redisUrl,omitempty"`
}

type DatabaseConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

type DriverOptions struct {
	SSL     bool   `json:"ssl" yaml:"ssl"`
	SSLMode string `json:"sslmode" yaml:"sslmode"`
}

// AdminConfig tells the admin UI where to reach the API.
type AdminConfig struct {
	BackendURL string `json:"backendUrl,omitempty" yaml:"backendUrl,omitempty"`
}

type PluginConfig struct {
	Resolve string       `json:"resolve" yaml:"resolve"`
	Options MinioOptions `json:"options" yaml:"options"`
}

// MinioOptions are the options of the MinIO file service plugin.
type MinioOptions struct {
	Endpoint               string `json:"endpoint" yaml:"endpoint"`
	Bucket                 string `json:"bucket" yaml:"bucket"`
	AccessKeyID            string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey        string `json:"secret_access_key" yaml:"secret_access_key"`
	PrivateBucket          string `json:"private_bucket,omitempty" yaml:"private_bucket,omitempty"`
	PrivateAccessKeyID     string `json:"private_access_key_id,omitempty" yaml:"private_access_key_id,omitempty"`
	PrivateSecretAccessKey string `json:"private_secret_access_key,omitempty" yaml:"private_secret_access_key,omitempty"`
}

// Load assembles the startup configuration from the environment. Absent
// variables are passed through empty; validation is left to the backend.
// A nil lookup uses os.LookupEnv.
func Load(lookup LookupFunc) *StartupConfig {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := &StartupConfig{
		ProjectConfig: ProjectConfig{
			Database: DatabaseConfig{URL: get(EnvDatabaseURL)},
			DatabaseDriverOptions: DriverOptions{
				SSL:     DatabaseSSL,
				SSLMode: DatabaseSSLMode,
			},
			RedisURL: get(EnvRedisURL),
		},
		Admin: AdminConfig{BackendURL: get(EnvAdminBackendURL)},
	}

	if isTruthy(get(EnvMinioEnabled)) {
		cfg.Plugins = append(cfg.Plugins, PluginConfig{
			Resolve: MinioPluginResolver,
			Options: MinioOptions{
				Endpoint:               get(EnvMinioEndpoint),
				Bucket:                 get(EnvMinioBucket),
				AccessKeyID:            get(EnvMinioAccessKey),
				SecretAccessKey:        get(EnvMinioSecretKey),
				PrivateBucket:          get(EnvMinioPrivBucket),
				PrivateAccessKeyID:     get(EnvMinioPrivAccess),
				PrivateSecretAccessKey: get(EnvMinioPrivSecret),
			},
		})
	}

	return cfg
}

// Minio returns the MinIO plugin options, if the plugin is enabled.
func (c *StartupConfig) Minio() (MinioOptions, bool) {
	for _, p := range c.Plugins {
		if p.Resolve == MinioPluginResolver {
			return p.Options, true
		}
	}
	return MinioOptions{}, false
}

func isTruthy(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}
