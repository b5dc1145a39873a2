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


package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const defaultFetchTimeout = 30 * time.Second

// WebLoader fetches a web page and extracts its readable article text,
// stripping navigation, ads, and markup.
type WebLoader struct {
	client *http.Client
}

var _ Loader = (*WebLoader)(nil)

// NewWebLoader creates a web loader with a default HTTP client.
func NewWebLoader() *WebLoader {
	return &WebLoader{
		client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

// Load fetches source and returns the extracted article text.
func (l *WebLoader) Load(ctx context.Context, source string) (string, error) {
	pageURL, err := url.Parse(source)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", source, resp.Status)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", source)
	}
	return text, nil
}
