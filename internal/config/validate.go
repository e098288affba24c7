// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/hybridrec/internal/validation"
)

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateWeights()
}

func (c *Config) validateCache() error {
	if c.Cache.Backend == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.backend is redis")
	}
	return nil
}

func (c *Config) validateWeights() error {
	w := c.Recommend.Weights
	if w.LatentFactor+w.Collaborative+w.Content == 0 {
		return fmt.Errorf("recommend.weights: at least one weight must be positive")
	}
	return nil
}
