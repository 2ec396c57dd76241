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
	"bytes"
	"io/ioutil"
	"path/filepath"
	"text/template"

	"github.com/BurntSushi/toml"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// LoadBinary loads, parses and validates the provided buffer b (as a config)
// and returns the Config.
func LoadBinary(b []byte) (*Config, error) {
	cfg := new(Config)
	_, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndApplyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the Config.
func LoadFile(f string) (*Config, error) {
	b, err := ioutil.ReadFile(filepath.Clean(f))
	if err != nil {
		return nil, err
	}
	return LoadBinary(b)
}

// WriteConfigFile renders config using the template and writes it to specified file path.
func WriteConfigFile(path string, config *Config) error {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		return err
	}

	return ioutil.WriteFile(path, buffer.Bytes(), 0600)
}

// helper function to make config creation independent of root dir
// adapted from the tendermint code
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// While using normal toml marshalling would have been way simpler, it's useful to have comments attached to
// the saved file.
// Note: any changes to the template must be reflected in the appropriate structs and tags.
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

##### main base provider config options #####
[provider]

# Human readable ID of this particular provider.
id = "{{ .Provider.ID }}"

# Address the provider binds to.
listening_address = "{{ .Provider.ListeningAddress }}"

# Port on which the provider listens for client requests.
port = {{ .Provider.Port }}

# Path to file containing private key.
priv_key_file = "{{ .Provider.PrivateKey }}"

# Path to file containing public key.
pub_key_file = "{{ .Provider.PublicKey }}"

# Path to the sqlite database holding messages of all clients.
inbox_database = "{{ .Provider.InboxDatabase }}"

##### advanced configuration options #####

# Maximum number of bytes read from a single client request.
max_request_size = {{ .Provider.MaxRequestSize }}

# Absolute path to the home directory of all providers.
home_directory = "{{ .Provider.HomeDirectory }}"

##### logging configuration options #####
[logging]

# Whether to disable logging entirely.
disable = {{ .Logging.Disable }}

# The log file. If omitted or set to empty value, stdout will be used.
file = "{{ .Logging.File }}"

# The logging level of the provider. The available options include:
# trace, debug, info, warning, error, panic, fatal
# Warning: The 'trace' and 'debug' log levels are unsafe for production use.
level = "{{ .Logging.Level }}"

##### debug configuration options #####
[debug]

# Time, in milliseconds, a client has to send its request and read the response.
connection_timeout_ms = {{ .Debug.ConnectionTimeoutMs }}

# Maximum number of messages returned in response to a single pull request.
# If set to a negative value, all stored messages are returned at once.
max_messages_per_pull = {{ .Debug.MaxMessagesPerPull }}

# Maximum number of client requests served per second. Set to 0 to disable the limit.
requests_per_second = {{ printf "%.2f" .Debug.RequestsPerSecond }}

# Number of requests that can be served at once above requests_per_second.
request_burst = {{ .Debug.RequestBurst }}
`
