package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [Config] with duration fields that accept both
// numbers (nanoseconds) and strings like "30s".
type jsonConfig struct {
	LDAP LDAP `json:"ldap,omitempty"`

	Storage Storage `json:"storage,omitempty"`

	Engine struct {
		PollTimeout Duration `json:"poll_timeout"`
	} `json:"engine,omitempty"`

	HTTP struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"http,omitempty"`

	Webhook struct {
		URL     string   `json:"url"`
		Timeout Duration `json:"timeout"`
	} `json:"webhook,omitempty"`

	LogFile string `json:"log_file"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		LDAP:    jsonCfg.LDAP,
		Storage: jsonCfg.Storage,
		Engine: Engine{
			PollTimeout: time.Duration(jsonCfg.Engine.PollTimeout),
		},
		HTTP: HTTP{
			Address:        jsonCfg.HTTP.Address,
			RequestTimeout: time.Duration(jsonCfg.HTTP.RequestTimeout),
		},
		Webhook: Webhook{
			URL:     jsonCfg.Webhook.URL,
			Timeout: time.Duration(jsonCfg.Webhook.Timeout),
		},
		LogFile: jsonCfg.LogFile,
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h" and "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
