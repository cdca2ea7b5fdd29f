package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeHTTP  = "http"
	TypeRedis = "redis"
	TypeKafka = "kafka"
	TypeQueue = "queue"

	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
	redisDefaultKey           = "headlines:traces"
)

type configFile struct {
	Sinks []SinkConfig `json:"sinks" yaml:"sinks"`
}

// SinkConfig is a single sink entry declared in the traces file.
type SinkConfig struct {
	ID      string           `json:"id" yaml:"id"`
	Type    string           `json:"type" yaml:"type"`
	Enabled *bool            `json:"enabled" yaml:"enabled"`
	HTTP    *HTTPSinkConfig  `json:"http" yaml:"http"`
	Redis   *RedisSinkConfig `json:"redis" yaml:"redis"`
	Kafka   *KafkaSinkConfig `json:"kafka" yaml:"kafka"`
	Queue   *QueueSinkConfig `json:"queue" yaml:"queue"`
}

type HTTPSinkConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type RedisSinkConfig struct {
	URL string `json:"url" yaml:"url"`
	Key string `json:"key" yaml:"key"`
}

type KafkaSinkConfig struct {
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`
}

// QueueSinkConfig selects a cloud queue provider.
type QueueSinkConfig struct {
	Provider string           `json:"provider" yaml:"provider"`
	SQS      *AWSSQSConfig    `json:"sqs" yaml:"sqs"`
	SNS      *AWSSNSConfig    `json:"sns" yaml:"sns"`
	GCP      *GCPPubSubConfig `json:"gcp" yaml:"gcp"`
}

type AWSSQSConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

type AWSSNSConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

type GCPPubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (cfg SinkConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// LoadConfig reads sink definitions from a YAML or JSON file and returns the
// enabled ones. An empty path means tracing goes to the log only.
func LoadConfig(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open traces file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read traces file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	parsed, err := parseConfigFile(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(parsed.Sinks))
	var enabled []SinkConfig
	for i := range parsed.Sinks {
		cfg := sanitizeSinkConfig(parsed.Sinks[i])
		if err := validateSinkConfig(cfg); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if _, exists := seen[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate sink id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		if cfg.EnabledValue() {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed configFile
		err := d.fn(data, &parsed)
		if err == nil {
			return parsed, nil
		}
		if ext != "" {
			return configFile{}, fmt.Errorf("parse traces file as %s: %w", d.name, err)
		}
	}

	return configFile{}, errors.New("traces file format not recognized (expected YAML or JSON)")
}

func sanitizeSinkConfig(cfg SinkConfig) SinkConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}

	if c := cfg.HTTP; c != nil {
		trim(&c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
	}
	if c := cfg.Redis; c != nil {
		trim(&c.URL, &c.Key)
		if c.Key == "" {
			c.Key = redisDefaultKey
		}
	}
	if c := cfg.Kafka; c != nil {
		trim(&c.Topic)
		brokers := c.Brokers[:0]
		for _, b := range c.Brokers {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Brokers = brokers
	}
	if q := cfg.Queue; q != nil {
		q.Provider = strings.ToLower(strings.TrimSpace(q.Provider))
		if c := q.SQS; c != nil {
			trim(&c.QueueURL, &c.Region, &c.AccessKeyID, &c.SecretAccessKey)
		}
		if c := q.SNS; c != nil {
			trim(&c.TopicARN, &c.Region, &c.AccessKeyID, &c.SecretAccessKey)
		}
		if c := q.GCP; c != nil {
			trim(&c.ProjectID, &c.Topic, &c.CredentialsFile)
		}
	}
	return cfg
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// required lists config paths and their values; the first empty one is
// reported.
type required [][2]string

func (r required) check(id string) error {
	for _, f := range r {
		if f[1] == "" {
			return fmt.Errorf("%s is required for sink %q", f[0], id)
		}
	}
	return nil
}

func validateSinkConfig(cfg SinkConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP == nil {
			cfg.HTTP = &HTTPSinkConfig{}
		}
		return required{{"http.url", cfg.HTTP.URL}}.check(cfg.ID)
	case TypeRedis:
		if cfg.Redis == nil {
			cfg.Redis = &RedisSinkConfig{}
		}
		return required{{"redis.url", cfg.Redis.URL}}.check(cfg.ID)
	case TypeKafka:
		if cfg.Kafka == nil {
			cfg.Kafka = &KafkaSinkConfig{}
		}
		return required{
			{"kafka.brokers", strings.Join(cfg.Kafka.Brokers, ",")},
			{"kafka.topic", cfg.Kafka.Topic},
		}.check(cfg.ID)
	case TypeQueue:
		return validateQueue(cfg.ID, cfg.Queue)
	case "":
		return fmt.Errorf("type is required for sink %q", cfg.ID)
	default:
		return fmt.Errorf("type %q not supported for sink %q", cfg.Type, cfg.ID)
	}
}

func validateQueue(id string, q *QueueSinkConfig) error {
	if q == nil {
		return fmt.Errorf("queue is required for sink %q", id)
	}

	switch q.Provider {
	case QueueProviderAWSSQS:
		if q.SQS == nil {
			return fmt.Errorf("sqs is required for sink %q", id)
		}
		return required{{"sqs.uri", q.SQS.QueueURL}, {"sqs.region", q.SQS.Region}}.check(id)
	case QueueProviderAWSSNS:
		if q.SNS == nil {
			return fmt.Errorf("sns is required for sink %q", id)
		}
		return required{{"sns.topic_arn", q.SNS.TopicARN}, {"sns.region", q.SNS.Region}}.check(id)
	case QueueProviderGCP:
		if q.GCP == nil {
			return fmt.Errorf("gcp is required for sink %q", id)
		}
		return required{{"gcp.project_id", q.GCP.ProjectID}, {"gcp.topic", q.GCP.Topic}}.check(id)
	default:
		return fmt.Errorf("queue provider %q not supported for sink %q", q.Provider, id)
	}
}
