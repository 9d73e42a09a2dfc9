package config

import (
	"time"

	"github.com/spf13/pflag"
)

// QuoteConfig holds configuration for the quote command. Pool state comes
// from Accounts when set, otherwise from RPCURL.
type QuoteConfig struct {
	RPCURL       string
	Commitment   string
	Accounts     string
	Pool         string
	From         string
	To           string
	Amount       float64
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadQuote merges config file, environment variables, and flags into QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"commitment":    "confirmed",
		"max-retries":   3,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	})
	if err != nil {
		return QuoteConfig{}, err
	}

	return QuoteConfig{
		RPCURL:       v.GetString("rpc"),
		Commitment:   v.GetString("commitment"),
		Accounts:     v.GetString("accounts"),
		Pool:         v.GetString("pool"),
		From:         v.GetString("from"),
		To:           v.GetString("to"),
		Amount:       v.GetFloat64("amount"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}
