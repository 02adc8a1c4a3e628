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

package body

import (
	"context"

	"github.com/tochemey/goactive/future"
	"github.com/tochemey/goactive/identity"
)

type contextKey struct{}

// Context is the calling context of a body or a half-body.
// Methods served by a body find it in the context.Context they receive.
type Context struct {
	store     *Store
	owner     *endpoint
	body      *Body
	request   *Request
	immediate bool
	parent    *Context
}

// ContextFrom returns the body context carried by ctx
func ContextFrom(ctx context.Context) (*Context, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok && c != nil
}

func withContext(ctx context.Context, c *Context) context.Context {
	if parent, ok := ContextFrom(ctx); ok && parent != c {
		c.parent = parent
	}
	return context.WithValue(ctx, contextKey{}, c)
}

// ID returns the identifier of the body owning the context
func (c *Context) ID() identity.ID {
	return c.owner.id
}

// Body returns the body serving the current request, nil for a half-body
func (c *Context) Body() *Body {
	return c.body
}

// Store returns the store the body lives in
func (c *Context) Store() *Store {
	return c.store
}

// Request returns the request being served, nil outside of a service
func (c *Context) Request() *Request {
	return c.request
}

// IsInImmediateService returns true when the current request is served
// by the caller's goroutine instead of the service loop
func (c *Context) IsInImmediateService() bool {
	return c.immediate
}

// IsHalfBody returns true when the context belongs to a half-body
func (c *Context) IsHalfBody() bool {
	return c.body == nil
}

// Parent returns the context that was current when this one was pushed
func (c *Context) Parent() *Context {
	return c.parent
}

// Send sends a two-way request on behalf of the context owner
func (c *Context) Send(ctx context.Context, to Handle, call *MethodCall) (*future.Future, error) {
	return c.owner.Send(ctx, to, call)
}

// SendOneWay sends a one-way request on behalf of the context owner
func (c *Context) SendOneWay(ctx context.Context, to Handle, call *MethodCall) error {
	return c.owner.SendOneWay(ctx, to, call)
}
