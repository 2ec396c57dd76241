// Copyright 2018-2019 The Loopix-Messaging Authors
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

/*
	Package helpers implements small filesystem and network utilities shared by the provider and its clients.
*/

package helpers

import (
	"encoding"
	"encoding/pem"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
)

var (
	ErrTrailingPEMData = errors.New("trailing garbage after PEM encoded key")
	ErrNoPEMBlock      = errors.New("no PEM block found")
)

// DirExists checks whether a directory exists at the given path.
func DirExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err == nil {
		return true, nil
	}
	return false, err
}

// EnsureDir checks whether a directory exists at the given path. If not, it will be created.
func EnsureDir(dir string, mode os.FileMode) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, mode)
		if err != nil {
			return fmt.Errorf("could not create directory %v: %w", dir, err)
		}
	}
	return nil
}

// ToPEMFile writes the binary form of o into f as a single PEM block.
func ToPEMFile(o encoding.BinaryMarshaler, f, pemType string) error {
	b, err := o.MarshalBinary()
	if err != nil {
		return err
	}
	blk := &pem.Block{
		Type:  pemType,
		Bytes: b,
	}
	return ioutil.WriteFile(f, pem.EncodeToMemory(blk), 0600)
}

// FromPEMFile reads a single PEM block of the given type from f into o.
func FromPEMFile(o encoding.BinaryUnmarshaler, f, pemType string) error {
	buf, err := ioutil.ReadFile(filepath.Clean(f))
	if err != nil {
		return err
	}
	blk, rest := pem.Decode(buf)
	if blk == nil {
		return ErrNoPEMBlock
	}
	if len(rest) != 0 {
		return ErrTrailingPEMData
	}
	if blk.Type != pemType {
		return fmt.Errorf("invalid PEM Type: '%v'", blk.Type)
	}
	if err := o.UnmarshalBinary(blk.Bytes); err != nil {
		return fmt.Errorf("failed to read key from PEM file: %w", err)
	}
	return nil
}

// ResolveTCPAddress returns an address of TCP end point given a host and port.
func ResolveTCPAddress(host, port string) (*net.TCPAddr, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}
	return addr, nil
}
