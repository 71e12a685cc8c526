// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/autoban/internal/validation"
)

// Validate checks every section. Defects outside the server section are
// repaired in place and recorded as warnings; a server defect is returned.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c)
	if err == nil {
		return nil
	}

	var serr *validation.StructError
	if !errors.As(err, &serr) {
		return err
	}

	def := defaultConfig()
	var fatal []string
	repaired := map[string]bool{}

	for _, f := range serr.Fields {
		switch {
		case f.Section() == "Server":
			fatal = append(fatal, f.Message)
			continue
		case strings.HasPrefix(f.Namespace, "Notify.Discord."):
			c.Notify.Discord.Enabled = false
			c.Notify.Discord.WebhookURL = ""
			if f.Tag == "oneof" {
				c.Notify.Discord.MinSeverity = def.Notify.Discord.MinSeverity
			}
			c.warn("%s; Discord notifications disabled", f.Message)
			continue
		case strings.HasPrefix(f.Namespace, "Notify.Webhook."):
			c.Notify.Webhook.Enabled = false
			c.Notify.Webhook.WebhookURL = ""
			if f.Tag == "oneof" {
				c.Notify.Webhook.MinSeverity = def.Notify.Webhook.MinSeverity
			}
			c.warn("%s; webhook notifications disabled", f.Message)
			continue
		}

		section := f.Section()
		if repaired[section] {
			continue
		}
		repaired[section] = true
		switch section {
		case "Logging":
			c.Logging = def.Logging
		case "Store":
			c.Store = def.Store
		case "Notify":
			discord, webhook := c.Notify.Discord, c.Notify.Webhook
			c.Notify = def.Notify
			c.Notify.Discord, c.Notify.Webhook = discord, webhook
		case "Enforcement":
			enabled := c.Enforcement.Enabled
			c.Enforcement = def.Enforcement
			c.Enforcement.Enabled = enabled
		case "Ingest":
			secret := c.Ingest.TokenSecret
			c.Ingest = def.Ingest
			c.Ingest.TokenSecret = secret
		}
		c.warn("%s; %s settings reset to defaults", f.Message, strings.ToLower(section))
	}

	if len(fatal) > 0 {
		return fmt.Errorf("server: %s", strings.Join(fatal, "; "))
	}
	return nil
}

func (c *Config) warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}
