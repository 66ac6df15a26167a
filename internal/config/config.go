// Package config loads process-wide configuration from the environment.
// Missing required settings are a startup failure, never a per-request one.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Storage driver names accepted by Load.
const (
	DriverImageKit = "imagekit"
	DriverS3       = "s3"
)

// Config holds everything the process needs, resolved once at startup.
type Config struct {
	HTTPAddr string

	MongoURL      string
	MongoDatabase string

	StorageDriver string

	ImageKitPrivateKey string
	ImageKitUploadURL  string
	ImageKitFolder     string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PublicURL string
}

// envBindings maps viper keys to the environment variables feeding them.
// The MOODCAT_-prefixed name wins over the conventional bare name.
var envBindings = map[string][]string{
	"http_addr":            {"MOODCAT_HTTP_ADDR", "HTTP_ADDR"},
	"mongodb_url":          {"MOODCAT_MONGODB_URL", "MONGODB_URL"},
	"mongodb_database":     {"MOODCAT_MONGODB_DATABASE", "MONGODB_DATABASE"},
	"storage_driver":       {"MOODCAT_STORAGE_DRIVER", "STORAGE_DRIVER"},
	"imagekit_private_key": {"MOODCAT_IMAGEKIT_PRIVATE_KEY", "IMAGEKIT_PRIVATE_KEY"},
	"imagekit_upload_url":  {"MOODCAT_IMAGEKIT_UPLOAD_URL", "IMAGEKIT_UPLOAD_URL"},
	"imagekit_folder":      {"MOODCAT_IMAGEKIT_FOLDER", "IMAGEKIT_FOLDER"},
	"s3_bucket":            {"MOODCAT_S3_BUCKET", "S3_BUCKET"},
	"s3_region":            {"MOODCAT_S3_REGION", "S3_REGION"},
	"s3_endpoint":          {"MOODCAT_S3_ENDPOINT", "S3_ENDPOINT"},
	"s3_public_url":        {"MOODCAT_S3_PUBLIC_URL", "S3_PUBLIC_URL"},
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("mongodb_database", "moodcat")
	v.SetDefault("storage_driver", DriverImageKit)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	cfg := Config{
		HTTPAddr:           v.GetString("http_addr"),
		MongoURL:           v.GetString("mongodb_url"),
		MongoDatabase:      v.GetString("mongodb_database"),
		StorageDriver:      v.GetString("storage_driver"),
		ImageKitPrivateKey: v.GetString("imagekit_private_key"),
		ImageKitUploadURL:  v.GetString("imagekit_upload_url"),
		ImageKitFolder:     v.GetString("imagekit_folder"),
		S3Bucket:           v.GetString("s3_bucket"),
		S3Region:           v.GetString("s3_region"),
		S3Endpoint:         v.GetString("s3_endpoint"),
		S3PublicURL:        v.GetString("s3_public_url"),
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings required for the selected adapters.
func (c Config) Validate() error {
	if c.MongoURL == "" {
		return fmt.Errorf("config: MONGODB_URL is required")
	}
	switch c.StorageDriver {
	case DriverImageKit:
		if c.ImageKitPrivateKey == "" {
			return fmt.Errorf("config: IMAGEKIT_PRIVATE_KEY is required for the imagekit storage driver")
		}
	case DriverS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return fmt.Errorf("config: S3_BUCKET and S3_REGION are required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	return nil
}
