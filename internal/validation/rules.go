// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// subjectToken matches a single token of a dot separated messaging subject
var subjectToken = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

type assertion struct {
	holds   bool
	message string
}

func (a assertion) Validate() error {
	if a.holds {
		return nil
	}
	return errors.New(a.message)
}

// ValidatorFunc turns a function into a Validator
type ValidatorFunc func() error

// Validate calls f
func (f ValidatorFunc) Validate() error {
	return f()
}

// NewEmptyStringValidator fails when value is blank
func NewEmptyStringValidator(field, value string) Validator {
	return ValidatorFunc(func() error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("the [%s] is required", field)
		}
		return nil
	})
}

// NewPatternValidator fails when value does not match pattern
func NewPatternValidator(field, value string, pattern *regexp.Regexp) Validator {
	return ValidatorFunc(func() error {
		if !pattern.MatchString(value) {
			return fmt.Errorf("the [%s] does not match %s", field, pattern)
		}
		return nil
	})
}

// NewSubjectTokenValidator fails when value cannot be used as one token of a
// messaging subject
func NewSubjectTokenValidator(field, value string) Validator {
	return ValidatorFunc(func() error {
		if !subjectToken.MatchString(value) {
			return fmt.Errorf("the [%s] must only contain letters, digits, '-' or '_'", field)
		}
		return nil
	})
}
