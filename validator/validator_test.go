package validator

import (
	"errors"
	"strings"
	"testing"
)

type cacheSettings struct {
	Provider  string
	RedisAddr string
}

type settings struct {
	Driver  string
	DSN     string
	Workers int
	Listen  string
	Cache   cacheSettings
}

func rules() Rules {
	return Rules{
		"Driver":          {In("", "mysql", "postgres", "sqlite3")},
		"DSN":             {Required.When(func(any) bool { return true }).Msg("dsn is required")},
		"Workers":         {Range(1, 16)},
		"Listen":          {HostPort.Optional()},
		"Cache.Provider":  {In("none", "memory", "redis")},
		"Cache.RedisAddr": {HostPort.Optional()},
		"Missing.Field":   {Required},
	}
}

func TestRulesValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s := settings{Driver: "sqlite3", DSN: "file.db", Workers: 4, Cache: cacheSettings{Provider: "memory"}}
		if err := rules().Validate(&s); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		s := settings{Driver: "oracle", Workers: 40, Listen: "8080", Cache: cacheSettings{Provider: "disk", RedisAddr: "localhost"}}
		err := rules().Validate(s)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Expected ValidationErrors, got %v", err)
		}
		for _, field := range []string{"Driver", "DSN", "Workers", "Listen", "Cache.Provider", "Cache.RedisAddr"} {
			if len(verrs[field]) == 0 {
				t.Errorf("Expected error for %s", field)
			}
		}
		if got := verrs["DSN"][0].Error(); got != "dsn is required" {
			t.Errorf("Expected custom message, got %q", got)
		}
		if !strings.HasPrefix(err.Error(), "Cache.Provider:") {
			t.Errorf("Expected fields in sorted order, got %q", err.Error())
		}
	})

	t.Run("NotAStruct", func(t *testing.T) {
		if err := rules().Validate(42); err == nil {
			t.Error("Expected error for non-struct value")
		}
	})
}

func TestOptionalAndWhen(t *testing.T) {
	if err := HostPort.Optional().Validate(""); err != nil {
		t.Errorf("Optional rule must skip zero values, got %v", err)
	}
	if err := Required.When(func(any) bool { return false }).Validate(""); err != nil {
		t.Errorf("When=false must skip validation, got %v", err)
	}
	if err := HostPort.Validate("127.0.0.1:8080"); err != nil {
		t.Errorf("Expected valid address, got %v", err)
	}
}
