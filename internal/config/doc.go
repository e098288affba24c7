// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package config loads the hybridrec application configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Defaults: built-in values from defaultConfig
 2. Config file: optional YAML, searched at CONFIG_PATH, ./config.yaml,
    ./config.yml, /etc/hybridrec/config.yaml
 3. Environment: mapped variables such as HTTP_ADDR, LOG_LEVEL,
    RECOMMEND_DEFAULT_TOP_N, CACHE_BACKEND, REDIS_ADDR

Example config.yaml:

	server:
	  addr: ":8080"
	  rate_limit_per_minute: 120
	data:
	  path: /data/catalog.json
	  reload_interval: 1m
	recommend:
	  default_top_n: 3
	  weights:
	    latent_factor: 0.5
	    collaborative: 0.3
	    content: 0.15
	cache:
	  enabled: true
	  backend: redis
	  redis:
	    addr: localhost:6379

The loaded Config is validated with struct tags and cross-field checks
before it is returned.
*/
package config
