// Copyright 2019 The Nym Mixnet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package providerrequests

import (
	"fmt"
)

const pullRequestLength = RequestTypeLength + DestinationAddressLength

// PullRequest asks the provider to deliver all messages queued for DestinationAddress.
type PullRequest struct {
	// TODO: authenticate the request once providers issue tokens upon registration.
	DestinationAddress DestinationAddressBytes
}

// NewPullRequest creates a pull request for the given address.
func NewPullRequest(address DestinationAddressBytes) *PullRequest {
	return &PullRequest{DestinationAddress: address}
}

func (pr *PullRequest) Type() RequestType {
	return PullRequestType
}

// Bytes returns the type tag followed by the destination address.
func (pr *PullRequest) Bytes() []byte {
	b := make([]byte, 0, pullRequestLength)
	b = append(b, pr.Type().Bytes()...)
	return append(b, pr.DestinationAddress[:]...)
}

// MarshalBinary never fails for a pull request.
func (pr *PullRequest) MarshalBinary() ([]byte, error) {
	return pr.Bytes(), nil
}

// UnmarshalBinary decodes a complete 34 byte pull request. The address is copied,
// so b can be reused by the caller afterwards.
func (pr *PullRequest) UnmarshalBinary(b []byte) error {
	if len(b) < pullRequestLength {
		return fmt.Errorf("%w: pull request needs %d bytes, got %d", ErrUnmarshal, pullRequestLength, len(b))
	}
	if err := checkPrefix(b, PullRequestType); err != nil {
		return err
	}
	if len(b) != pullRequestLength {
		return fmt.Errorf("%w: pull request needs %d bytes, got %d", ErrUnmarshal, pullRequestLength, len(b))
	}

	*pr = PullRequest{}
	copy(pr.DestinationAddress[:], b[RequestTypeLength:])
	return nil
}
