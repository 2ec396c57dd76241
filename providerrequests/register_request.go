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

// RegisterRequest asks the provider to register a new client.
// Its payload is not defined yet, so both encoding and decoding fail with ErrUnimplementedRequest.
type RegisterRequest struct{}

// NewRegisterRequest creates a register request.
func NewRegisterRequest() *RegisterRequest {
	return &RegisterRequest{}
}

func (rr *RegisterRequest) Type() RequestType {
	return RegisterRequestType
}

// MarshalBinary always fails until the registration payload is specified.
// The returned error matches both ErrMarshal and ErrUnimplementedRequest.
func (rr *RegisterRequest) MarshalBinary() ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", ErrMarshal, ErrUnimplementedRequest)
}

// UnmarshalBinary still validates the type tag, so that malformed input is reported as such,
// but fails with ErrUnimplementedRequest for anything that is tagged as a register request.
func (rr *RegisterRequest) UnmarshalBinary(b []byte) error {
	if err := checkPrefix(b, RegisterRequestType); err != nil {
		return err
	}
	return fmt.Errorf("%w: register request payload layout is undefined", ErrUnimplementedRequest)
}
