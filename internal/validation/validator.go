// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/autoban/internal/notify"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed constraint.
type FieldError struct {
	// Namespace is the dotted struct path without the root type name,
	// e.g. "Logging.Level".
	Namespace string
	Tag       string
	Param     string
	Value     interface{}
	Message   string
}

// Section returns the first path element of the namespace.
func (e FieldError) Section() string {
	section, _, _ := strings.Cut(e.Namespace, ".")
	return section
}

// StructError collects every failed constraint of one struct.
type StructError struct {
	Fields []FieldError
}

func (e *StructError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("discord_webhook", func(fl validator.FieldLevel) bool {
			return notify.ValidateDiscordURL(fl.Field().String()) == nil
		})
	})
	return validate
}

// ValidateStruct validates s. It returns nil or a *StructError.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &StructError{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		ns := fe.Namespace()
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		out.Fields[i] = FieldError{
			Namespace: ns,
			Tag:       fe.Tag(),
			Param:     fe.Param(),
			Value:     fe.Value(),
			Message:   translate(ns, fe),
		}
	}
	return out
}

var messageTemplates = map[string]string{
	"required":        "%s is required",
	"hostname_port":   "%s must be host:port",
	"url":             "%s must be a valid URL",
	"discord_webhook": "%s must be a Discord webhook URL",
}

var paramTemplates = map[string]string{
	"oneof":       "%s must be one of: %s",
	"gt":          "%s must be greater than %s",
	"gte":         "%s must be greater than or equal to %s",
	"lte":         "%s must be less than or equal to %s",
	"required_if": "%s is required when %s",
}

func translate(field string, fe validator.FieldError) string {
	if t, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := paramTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
