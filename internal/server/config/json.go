package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clinicportal/internal/flagx"
	"github.com/dmitrijs2005/clinicportal/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept both "15m"-style strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level"`
	CORSAllowOrigins            []string       `json:"cors_allow_origins"`
	MaxUploadSize               int64          `json:"max_upload_size"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3PublicBaseURL             string         `json:"s3_public_base_url"`
	ModelSource                 string         `json:"model_source"`
	ModelRepoID                 string         `json:"model_repo_id"`
	ModelHubBaseURL             string         `json:"model_hub_base_url"`
	ModelBucket                 string         `json:"model_bucket"`
	ModelCacheDir               string         `json:"model_cache_dir"`
	ModelRuntimeLibrary         string         `json:"model_runtime_library"`
	MaxImagePixels              int64          `json:"max_image_pixels"`
	ImageFetchTimeout           timex.Duration `json:"image_fetch_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config. Keys that
// are absent from the file leave the current value untouched. An unreadable
// or malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	if len(c.CORSAllowOrigins) > 0 {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.ModelSource, c.ModelSource)
	setString(&config.ModelRepoID, c.ModelRepoID)
	setString(&config.ModelHubBaseURL, c.ModelHubBaseURL)
	setString(&config.ModelBucket, c.ModelBucket)
	setString(&config.ModelCacheDir, c.ModelCacheDir)
	setString(&config.ModelRuntimeLibrary, c.ModelRuntimeLibrary)
	if c.MaxImagePixels > 0 {
		config.MaxImagePixels = c.MaxImagePixels
	}
	if c.ImageFetchTimeout.Duration > 0 {
		config.ImageFetchTimeout = c.ImageFetchTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
