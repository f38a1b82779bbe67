/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commander

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
)

// ReadDocument reads an experiment document from the named file, using the
// supplied reader when the name is "-" (the conventional stdin marker).
func ReadDocument(filename string, in io.Reader) (string, error) {
	var data []byte
	var err error
	if filename == "-" {
		data, err = ioutil.ReadAll(in)
	} else {
		data, err = ioutil.ReadFile(filename)
	}
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", fmt.Errorf("empty experiment document")
	}
	return string(data), nil
}

// OpenOrStdin returns a read closer for the named file or stdin for "-".
func OpenOrStdin(filename string, in io.Reader) (io.ReadCloser, error) {
	if filename == "-" {
		return ioutil.NopCloser(in), nil
	}
	return os.Open(filename)
}
