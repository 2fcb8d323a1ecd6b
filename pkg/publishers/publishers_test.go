package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePublishersYAML = `
publishers:
  - id: webhook
    type: HTTP
    http:
      url: "  https://hooks.example.com/news  "
      headers:
        Authorization: "Bearer token"
        Empty: ""

  - id: sqs-main
    type: queue
    enabled: false
    queue:
      provider: AWS_SQS
      aws_sqs:
        uri: https://sqs.eu-west-1.amazonaws.com/123/news
        region: eu-west-1

  - id: sns-alerts
    type: queue
    queue:
      provider: aws_sns
      aws_sns:
        topic_arn: arn:aws:sns:eu-west-1:123:news
        region: eu-west-1

  - id: pubsub-feed
    type: queue
    queue:
      provider: gcp_pubsub
      gcp_pubsub:
        project_id: news-project
        topic: news-events
`

func writeTempPublishers(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return path
}

func TestLoadRegistrySanitizesEntries(t *testing.T) {
	path := writeTempPublishers(t, "publishers.yaml", samplePublishersYAML)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 4 {
		t.Fatalf("expected 4 publishers, got %d", got)
	}

	webhook, ok := reg.ByID("webhook")
	if !ok {
		t.Fatalf("webhook not found")
	}
	if webhook.Type != TypeHTTP {
		t.Fatalf("type not lowercased: %q", webhook.Type)
	}
	if webhook.HTTP.URL != "https://hooks.example.com/news" {
		t.Fatalf("url not trimmed: %q", webhook.HTTP.URL)
	}
	if webhook.HTTP.Method != "POST" {
		t.Fatalf("default method not applied: %q", webhook.HTTP.Method)
	}
	if webhook.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("default timeout not applied: %d", webhook.HTTP.TimeoutSeconds)
	}
	if _, exists := webhook.HTTP.Headers["Empty"]; exists {
		t.Fatalf("empty header must be dropped: %v", webhook.HTTP.Headers)
	}
	if !webhook.EnabledValue() {
		t.Fatalf("enabled must default to true")
	}

	sqs, _ := reg.ByID("sqs-main")
	if sqs.Queue.Provider != QueueProviderAWSSQS {
		t.Fatalf("provider not lowercased: %q", sqs.Queue.Provider)
	}
	if sqs.EnabledValue() {
		t.Fatalf("explicit enabled=false lost")
	}
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeTempPublishers(t, "publishers.yaml", samplePublishersYAML)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	enabled := reg.Enabled()
	if len(enabled) != 3 {
		t.Fatalf("expected 3 enabled publishers, got %d", len(enabled))
	}
	for _, cfg := range enabled {
		if cfg.ID == "sqs-main" {
			t.Fatalf("disabled publisher leaked into Enabled()")
		}
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing id", `
publishers:
  - type: http
    http: {url: "https://x"}
`},
		{"missing type", `
publishers:
  - id: a
`},
		{"http without url", `
publishers:
  - id: a
    type: http
    http: {method: post}
`},
		{"queue without provider", `
publishers:
  - id: a
    type: queue
    queue: {}
`},
		{"unknown provider", `
publishers:
  - id: a
    type: queue
    queue: {provider: rabbitmq}
`},
		{"sqs without region", `
publishers:
  - id: a
    type: queue
    queue:
      provider: aws_sqs
      aws_sqs: {uri: "https://sqs"}
`},
		{"sns without topic", `
publishers:
  - id: a
    type: queue
    queue:
      provider: aws_sns
      aws_sns: {region: eu-west-1}
`},
		{"pubsub without project", `
publishers:
  - id: a
    type: queue
    queue:
      provider: gcp_pubsub
      gcp_pubsub: {topic: news}
`},
		{"duplicate ids", `
publishers:
  - id: a
    type: http
    http: {url: "https://x"}
  - id: a
    type: http
    http: {url: "https://y"}
`},
		{"empty file", `
publishers: []
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempPublishers(t, "publishers.yaml", tc.yaml)
			if _, err := LoadRegistry(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadRegistryJSONFormat(t *testing.T) {
	content := `{"publishers": [{"id": "webhook", "type": "http", "http": {"url": "https://x"}}]}`
	path := writeTempPublishers(t, "publishers.json", content)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("webhook"); !ok {
		t.Fatalf("json publisher not loaded")
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadRegistry("  "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}
