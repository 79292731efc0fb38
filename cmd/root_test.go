package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestConfigDumpOmitsInlineKeys(t *testing.T) {
	viper.Set("llm.claude.api-key", "sk-ant-inline-secret")
	viper.Set("llm.gemini.api-key", "gemini-inline-secret")
	t.Cleanup(func() {
		viper.Set("llm.claude.api-key", "")
		viper.Set("llm.gemini.api-key", "")
	})

	config, err := getConfig()
	if err != nil {
		t.Fatalf("getConfig returned error: %v", err)
	}
	if config.LLM.Claude.APIKey != "sk-ant-inline-secret" || config.LLM.Gemini.APIKey != "gemini-inline-secret" {
		t.Fatalf("inline keys were not decoded: %+v %+v", config.LLM.Claude, config.LLM.Gemini)
	}

	pretty, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if strings.Contains(string(pretty), "inline-secret") {
		t.Fatalf("config dump leaks an api key:\n%s", pretty)
	}
}

func TestConfigDefaults(t *testing.T) {
	config, err := getConfig()
	if err != nil {
		t.Fatalf("getConfig returned error: %v", err)
	}
	if config.Chat.DefaultHours != config.Pricing.DefaultHours || config.Pricing.DefaultHours != 2 {
		t.Fatalf("unexpected default hours: chat %v, pricing %v", config.Chat.DefaultHours, config.Pricing.DefaultHours)
	}
	if config.Server.Listen != ":8080" || config.Chat.MaxMatches != 3 {
		t.Fatalf("unexpected defaults: %+v %+v", config.Server, config.Chat)
	}
}
