package config

import (
	"encoding/json"
	"os"

	"github.com/annagruz/taskvault/internal/flagx"
)

// JsonConfig mirrors Config for JSON unmarshalling. It uses the local
// Duration type so lifetime fields accept both "120h" strings and integer
// nanoseconds. Values are copied into the runtime Config after decoding.
type JsonConfig struct {
	EndpointAddrHTTP string   `json:"endpoint_addr_http"`
	DatabaseDSN      string   `json:"database_dsn"`
	SecretKey        string   `json:"secret_key"`
	TokenValidity    Duration `json:"token_validity"`
	BcryptCost       int      `json:"bcrypt_cost"`
	SessionBackend   string   `json:"session_backend"`
	RedisAddr        string   `json:"redis_addr"`
	AvatarBackend    string   `json:"avatar_backend"`
	S3RootUser       string   `json:"s3_root_user"`
	S3RootPassword   string   `json:"s3_root_password"`
	S3Bucket         string   `json:"s3_bucket"`
	S3Region         string   `json:"s3_region"`
	S3BaseEndpoint   string   `json:"s3_base_endpoint"`
	SMTPAddr         string   `json:"smtp_addr"`
	SMTPHost         string   `json:"smtp_host"`
	SMTPUser         string   `json:"smtp_user"`
	SMTPPassword     string   `json:"smtp_password"`
	SMTPFrom         string   `json:"smtp_from"`
	LogFormat        string   `json:"log_format"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// A missing flag means no file is loaded; an unreadable or malformed file
// panics, since running with half a config is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidity = c.TokenValidity.Duration
	config.BcryptCost = c.BcryptCost
	config.SessionBackend = c.SessionBackend
	config.RedisAddr = c.RedisAddr
	config.AvatarBackend = c.AvatarBackend
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SMTPAddr = c.SMTPAddr
	config.SMTPHost = c.SMTPHost
	config.SMTPUser = c.SMTPUser
	config.SMTPPassword = c.SMTPPassword
	config.SMTPFrom = c.SMTPFrom
	config.LogFormat = c.LogFormat
}
