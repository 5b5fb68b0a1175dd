package cache

import (
	"testing"

	"github.com/1shammah/symptom-checker/pkg/config"
)

func TestBuildKeyIgnoresOrderAndCase(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	a := c.buildKey([]string{"Fever", "cough"}, 5)
	b := c.buildKey([]string{"cough", "  fever "}, 5)
	if a != b {
		t.Errorf("keys differ for equivalent symptom sets: %q vs %q", a, b)
	}
}

func TestBuildKeyDistinguishesTopK(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	a := c.buildKey([]string{"fever"}, 5)
	b := c.buildKey([]string{"fever"}, 10)
	if a == b {
		t.Error("keys should differ for different top_k values")
	}
}

func TestBuildKeyDistinguishesSymptoms(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	a := c.buildKey([]string{"fever"}, 5)
	b := c.buildKey([]string{"cough"}, 5)
	if a == b {
		t.Error("keys should differ for different symptom sets")
	}
}

func TestBuildKeyHasPrefix(t *testing.T) {
	c := New(nil, config.RedisConfig{})

	key := c.buildKey([]string{"fever"}, 5)
	if len(key) <= len(keyPrefix) || key[:len(keyPrefix)] != keyPrefix {
		t.Errorf("key %q should start with %q", key, keyPrefix)
	}
}
