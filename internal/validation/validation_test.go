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
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
)

type validationTestSuite struct {
	suite.Suite
}

func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestChain() {
	s.Run("with no validator", func() {
		s.Assert().NoError(New().Validate())
	})
	s.Run("with a passing assertion", func() {
		chain := New().AddAssertion(true, "never")
		s.Assert().Len(chain.validators, 1)
		s.Assert().NoError(chain.Validate())
	})
	s.Run("with FailFast", func() {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with every violation", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("field", " ")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
}

func (s *validationTestSuite) TestRules() {
	s.Run("empty string", func() {
		s.Assert().NoError(NewEmptyStringValidator("name", "alpha").Validate())
		s.Assert().Error(NewEmptyStringValidator("name", "").Validate())
	})
	s.Run("pattern", func() {
		digits := regexp.MustCompile(`^[0-9]+$`)
		s.Assert().NoError(NewPatternValidator("port", "4222", digits).Validate())
		s.Assert().EqualError(NewPatternValidator("port", "42a", digits).Validate(), "the [port] does not match ^[0-9]+$")
	})
	s.Run("subject token", func() {
		for _, valid := range []string{"alpha", "node-1", "node_2"} {
			s.Assert().NoError(NewSubjectTokenValidator("name", valid).Validate())
		}
		for _, invalid := range []string{"", "al.pha", "a b", "a*", "a>"} {
			s.Assert().Error(NewSubjectTokenValidator("name", invalid).Validate())
		}
	})
}
