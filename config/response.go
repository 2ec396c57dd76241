// Copyright 2019 The Loopix-Messaging Authors
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

package config

import (
	"github.com/golang/protobuf/proto"
)

// ProviderResponse is sent back by the provider for every request it receives.
// Either Messages holds the messages retrieved from the inbox or Error describes why the request was rejected.
type ProviderResponse struct {
	Messages [][]byte `protobuf:"bytes,1,rep,name=Messages,json=messages,proto3" json:"Messages,omitempty"`
	Error    string   `protobuf:"bytes,2,opt,name=Error,json=error,proto3" json:"Error,omitempty"`
}

func (m *ProviderResponse) Reset()         { *m = ProviderResponse{} }
func (m *ProviderResponse) String() string { return proto.CompactTextString(m) }
func (*ProviderResponse) ProtoMessage()    {}

func (m *ProviderResponse) GetMessages() [][]byte {
	if m != nil {
		return m.Messages
	}
	return nil
}

func (m *ProviderResponse) GetError() string {
	if m != nil {
		return m.Error
	}
	return ""
}

// MarshalProviderResponse wraps the given messages, or the error, into the wire form of ProviderResponse.
func MarshalProviderResponse(messages [][]byte, err error) ([]byte, error) {
	resp := &ProviderResponse{Messages: messages}
	if err != nil {
		resp.Error = err.Error()
	}
	return proto.Marshal(resp)
}

// UnmarshalProviderResponse recovers ProviderResponse from its wire form.
func UnmarshalProviderResponse(b []byte) (*ProviderResponse, error) {
	resp := new(ProviderResponse)
	if err := proto.Unmarshal(b, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
