// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/ragpipe/core"
)

const chunkKeyPrefix = "chunk:"

func makeChunkKey(seq uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", chunkKeyPrefix, seq)
}

// chunkRecord is the stored representation of a core.Chunk, vector
// included so retrieval never has to re-embed.
type chunkRecord struct {
	ID          core.ID   `json:"id"`
	Source      string    `json:"source"`
	StartOffset int       `json:"start_offset"`
	Contents    string    `json:"contents"`
	Vector      []float32 `json:"vector"`
}

func marshalChunk(chunk *core.Chunk) ([]byte, error) {
	return json.Marshal(chunkRecord{
		ID:          chunk.Id,
		Source:      chunk.Source,
		StartOffset: chunk.StartOffset,
		Contents:    chunk.Contents,
		Vector:      chunk.Vector,
	})
}

func unmarshalChunk(data []byte) (*core.Chunk, error) {
	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &core.Chunk{
		Id:          rec.ID,
		Source:      rec.Source,
		StartOffset: rec.StartOffset,
		Contents:    rec.Contents,
		Vector:      rec.Vector,
	}, nil
}
