package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DriverFile     = "file"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"

	DefaultPlaceholder = "https://via.placeholder.com/300"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Port      string
	PublicDir string
	UploadDir string
	// UploadPrefix is UploadDir relative to PublicDir, as stored in image paths.
	UploadPrefix string
	DataFile     string
	Driver       string
	BoltPath     string
	DatabaseURL  string
	Placeholder  string

	MetricsToken string
	// CreateRateLimit is requests per minute per client IP on create; 0 disables.
	CreateRateLimit int
	LogFile         string
}

func Load() (Config, error) {
	c := Config{
		Port:         getenv("PORT", "3000"),
		PublicDir:    getenv("PUBLIC_DIR", "public"),
		UploadDir:    getenv("UPLOAD_DIR", "public/uploads"),
		DataFile:     getenv("DATA_FILE", "data/products.json"),
		Driver:       getenv("STORE_DRIVER", DriverFile),
		BoltPath:     getenv("BOLT_PATH", "data/products.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Placeholder:  getenv("PLACEHOLDER_IMAGE", DefaultPlaceholder),
		MetricsToken: os.Getenv("METRICS_TOKEN"),
		LogFile:      os.Getenv("LOG_FILE"),
	}

	limit, err := strconv.Atoi(getenv("CREATE_RATE_LIMIT", "0"))
	if err != nil || limit < 0 {
		return Config{}, fmt.Errorf("%w: CREATE_RATE_LIMIT must be a non-negative integer", ErrInvalid)
	}
	c.CreateRateLimit = limit

	prefix, err := uploadPrefix(c.PublicDir, c.UploadDir)
	if err != nil {
		return Config{}, err
	}
	c.UploadPrefix = prefix

	switch c.Driver {
	case DriverFile, DriverBolt:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return Config{}, fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrInvalid)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalid, c.Driver)
	}

	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// uploadPrefix requires uploadDir to live under publicDir so stored image
// paths resolve through static serving.
func uploadPrefix(publicDir, uploadDir string) (string, error) {
	pub, perr := filepath.Abs(publicDir)
	up, uerr := filepath.Abs(uploadDir)
	if perr != nil || uerr != nil {
		return "", fmt.Errorf("%w: resolve PUBLIC_DIR/UPLOAD_DIR", ErrInvalid)
	}

	rel, err := filepath.Rel(pub, up)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: UPLOAD_DIR %q must be inside PUBLIC_DIR %q", ErrInvalid, uploadDir, publicDir)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}
