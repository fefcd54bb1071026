package devops

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// AppConfig is the portal's runtime configuration. It can live as a YAML
// document in SSM Parameter Store (STAFFPORT_CONFIG_PARAM), with individual
// environment variables taking precedence for local development.
type AppConfig struct {
	DSN                 string `yaml:"dsn"`
	SigningSecretBase64 string `yaml:"signingSecret"`
	BaseURL             string `yaml:"baseUrl"`
	ClientURL           string `yaml:"clientUrl"`
	DocumentBucket      string `yaml:"documentBucket"`
	MailFrom            string `yaml:"mailFrom"`
	ListenAddr          string `yaml:"listenAddr"`
	ReviewMaxTTLSeconds int64  `yaml:"reviewMaxTtlSeconds"`
}

var (
	once    sync.Once
	cfg     AppConfig
	loadErr error
)

// Load resolves the configuration once per process.
func Load(ctx context.Context) (AppConfig, error) {
	once.Do(func() {
		if paramName := os.Getenv("STAFFPORT_CONFIG_PARAM"); paramName != "" {
			if err := loadFromSSM(ctx, paramName); err != nil {
				loadErr = err
				return
			}
		}
		applyEnvOverrides()

		if cfg.ListenAddr == "" {
			cfg.ListenAddr = "0.0.0.0:8080"
		}
		if cfg.DSN == "" {
			loadErr = fmt.Errorf("DSN is not configured")
			return
		}
		if cfg.SigningSecretBase64 == "" {
			loadErr = fmt.Errorf("signing secret is not configured")
		}
	})

	return cfg, loadErr
}

// SigningSecret decodes the base64 HMAC secret.
func (c AppConfig) SigningSecret() ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(c.SigningSecretBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}
	return secret, nil
}

func loadFromSSM(ctx context.Context, paramName string) error {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("get parameter: %w", err)
	}

	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &cfg); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides() {
	if v := os.Getenv("DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("STAFFPORT_SIGNING_SECRET"); v != "" {
		cfg.SigningSecretBase64 = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CLIENT_URL"); v != "" {
		cfg.ClientURL = v
	}
	if v := os.Getenv("DOCUMENT_BUCKET"); v != "" {
		cfg.DocumentBucket = v
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		cfg.MailFrom = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("REVIEW_MAX_TTL_SECONDS"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ReviewMaxTTLSeconds = secs
		}
	}
}
