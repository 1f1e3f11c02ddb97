package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "CLINIC_"

// parseEnv overlays values from environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment take precedence over it.
//
// Malformed numeric or duration values panic, matching the JSON and flag
// loaders.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envString(&config.LogLevel, "LOG_LEVEL")
	envList(&config.CORSAllowOrigins, "CORS_ORIGINS")
	envInt64(&config.MaxUploadSize, "MAX_UPLOAD_SIZE")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")
	envString(&config.ModelSource, "MODEL_SOURCE")
	envString(&config.ModelRepoID, "MODEL_REPO_ID")
	envString(&config.ModelHubBaseURL, "MODEL_HUB_BASE_URL")
	envString(&config.ModelBucket, "MODEL_BUCKET")
	envString(&config.ModelCacheDir, "MODEL_CACHE_DIR")
	envString(&config.ModelRuntimeLibrary, "ONNXRUNTIME_LIB")
	envInt64(&config.MaxImagePixels, "MAX_IMAGE_PIXELS")
	envDuration(&config.ImageFetchTimeout, "IMAGE_FETCH_TIMEOUT")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envList(dst *[]string, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func envInt64(dst *int64, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
