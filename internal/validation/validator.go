// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package validation checks API request structs with go-playground/validator
// v10 and turns failures into VALIDATION_ERROR payloads.
//
// One validator is shared process-wide. Field names in messages come from the
// `query` or `json` tag so that clients see the parameter they sent. Besides
// the built-in tags, catalog requests use:
//
//   - notblank: non-empty after trimming whitespace
//   - taglist: a comma-separated list the recommender can match, at most
//     MaxTags entries of at most MaxTagLength characters each
//   - sourcename: a source identifier such as met_museum
//
//	type CreateResourceRequest struct {
//	    Title  string `json:"title" validate:"required,notblank,max=300"`
//	    Source string `json:"source" validate:"omitempty,sourcename"`
//	    Tags   string `json:"tags" validate:"omitempty,taglist"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/models"
)

const (
	MaxTags      = 20
	MaxTagLength = 50

	codeValidation = "VALIDATION_ERROR"
)

var sourceNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestError collects every failed field of one struct.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// APIError renders the failure for the response envelope. A single failure
// reports its field and tag directly; several are listed under "fields".
func (e *RequestError) APIError() *models.APIError {
	switch len(e.Fields) {
	case 0:
		return &models.APIError{Code: codeValidation, Message: "Validation failed"}
	case 1:
		f := e.Fields[0]
		return &models.APIError{
			Code:    codeValidation,
			Message: f.Message,
			Details: map[string]interface{}{"field": f.Field, "tag": f.Tag},
		}
	default:
		return &models.APIError{
			Code:    codeValidation,
			Message: e.Error(),
			Details: map[string]interface{}{"fields": e.Fields},
		}
	}
}

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)

		custom := map[string]validator.Func{
			"notblank":   func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
			"taglist":    func(fl validator.FieldLevel) bool { return validTagList(fl.Field().String()) },
			"sourcename": func(fl validator.FieldLevel) bool { return sourceNamePattern.MatchString(fl.Field().String()) },
		}
		for tag, fn := range custom {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validator: %v", tag, err))
			}
		}
		validate = v
	})
	return validate
}

// validTagList mirrors models.SplitTags: blank entries are ignored, the rest
// are counted and length-checked.
func validTagList(s string) bool {
	tags := models.SplitTags(s)
	if len(tags) > MaxTags {
		return false
	}
	for _, t := range tags {
		if len(t) > MaxTagLength {
			return false
		}
	}
	return true
}

// fieldName prefers the query tag, then json, then the Go field name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"query", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Struct validates s. It returns nil when every field passes.
func Struct(s interface{}) *RequestError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestError{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := &RequestError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: message(fe)}
	}
	return out
}

var messages = map[string]string{
	"required":   "%s is required",
	"notblank":   "%s must not be blank",
	"email":      "%s must be a valid email address",
	"url":        "%s must be a valid URL",
	"sourcename": "%s must be a lowercase source identifier such as met_museum",
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "taglist":
		return fmt.Sprintf("%s must list at most %d comma-separated tags of at most %d characters", field, MaxTags, MaxTagLength)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
