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
	"errors"
)

var (
	// ErrMarshal is returned when a request could not be turned into bytes.
	ErrMarshal = errors.New("providerrequests: marshal error")
	// ErrUnmarshal is returned for buffers that are too short or have an invalid length for their type.
	ErrUnmarshal = errors.New("providerrequests: unmarshal error")
	// ErrUnmarshalIncorrectPrefix is returned when the leading type tag does not match the expected request type.
	ErrUnmarshalIncorrectPrefix = errors.New("providerrequests: unmarshal error - incorrect prefix")
	// ErrUnimplementedRequest is returned by request types whose payload layout is not defined yet.
	// It is kept separate from ErrUnmarshal so that callers can tell "not supported" apart from "malformed".
	ErrUnimplementedRequest = errors.New("providerrequests: request type is not implemented")
	// ErrDuplicateRequestType is returned when registering a request type whose tag is already taken.
	ErrDuplicateRequestType = errors.New("providerrequests: request type already registered")
)
