/*
Copyright 2026 The Quiver Authors

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

package highlight

import "fmt"

// Config describes the padded tri-gram buffer geometry that AddTreeGramm
// uses to translate a raw tri-gram token position back into document
// coordinates.
type Config struct {
	// BufferSize is the width of the padded tri-gram buffer.
	BufferSize int
	// SpaceSize is the padding reserved on either side of the buffer.
	SpaceSize int
	// TotalSize is the size of the document's indexed text.
	TotalSize int
}

// NewConfig validates and builds a Config. BufferSize must be positive and
// SpaceSize/TotalSize must be non-negative; the geometry is otherwise
// whatever the tri-gram indexer reports and is not second-guessed here.
func NewConfig(bufferSize, spaceSize, totalSize int) (Config, error) {
	if bufferSize <= 0 {
		return Config{}, fmt.Errorf("highlight: buffer size must be positive, got %d", bufferSize)
	}
	if spaceSize < 0 {
		return Config{}, fmt.Errorf("highlight: space size must be non-negative, got %d", spaceSize)
	}
	if totalSize < 0 {
		return Config{}, fmt.Errorf("highlight: total size must be non-negative, got %d", totalSize)
	}
	return Config{BufferSize: bufferSize, SpaceSize: spaceSize, TotalSize: totalSize}, nil
}
