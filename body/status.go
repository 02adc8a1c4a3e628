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

import "strconv"

// Status is returned by the admission entry points and by the fault-tolerance
// hook to tell the caller how a message was handled.
type Status int

const (
	// StatusNonFT is the status of a message admitted without fault-tolerance involvement
	StatusNonFT Status = -30
	// StatusImmediateService is returned when a request was served on the receiving goroutine
	StatusImmediateService Status = -1
	// StatusOrphanReply is returned when a reply matched no pending future and was discarded
	StatusOrphanReply Status = -2
	// StatusIgnored is returned when a hook vetoed the message
	StatusIgnored Status = -3
	// StatusForwarded is returned when a message was relayed to the new location of a body
	StatusForwarded Status = -4
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusNonFT:
		return "NonFT"
	case StatusImmediateService:
		return "ImmediateService"
	case StatusOrphanReply:
		return "OrphanReply"
	case StatusIgnored:
		return "Ignored"
	case StatusForwarded:
		return "Forwarded"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}
