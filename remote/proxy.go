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

package remote

import (
	"context"

	"github.com/tochemey/goactive/body"
	"github.com/tochemey/goactive/identity"
)

// proxy is the local stand-in of a body hosted by another node
type proxy struct {
	node    *Node
	address string
	id      identity.ID
}

var (
	_ body.Handle      = (*proxy)(nil)
	_ body.Addressable = (*proxy)(nil)
)

func (p *proxy) ID() identity.ID {
	return p.id
}

func (p *proxy) Address() string {
	return p.address
}

func (p *proxy) ReceiveRequest(ctx context.Context, request *body.Request) (body.Status, error) {
	return p.node.send(ctx, p.address, &envelope{
		Kind:        requestKind,
		Destination: p.id,
		Request:     request,
	})
}

func (p *proxy) ReceiveReply(ctx context.Context, reply *body.Reply) (body.Status, error) {
	return p.node.send(ctx, p.address, &envelope{
		Kind:        replyKind,
		Destination: p.id,
		Reply:       reply,
	})
}
