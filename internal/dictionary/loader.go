package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSuffix is appended to the language tag to build a local dictionary path.
const FileSuffix = ".texotip.json"

// maxBody bounds how much of a dictionary response is read.
const maxBody = 8 << 20

// IsURL reports whether ref should be fetched over HTTP.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ResolveRef returns the dictionary reference for a source and language.
// A URL source is used as is; anything else is treated as a directory
// holding one <language>.texotip.json file per language.
func ResolveRef(source, language string) string {
	if IsURL(source) {
		return source
	}
	return path.Join(source, language+FileSuffix)
}

// Loader reads dictionaries from local files or HTTP endpoints.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client}
}

// Load fetches and decodes the dictionary at ref, then validates it.
// Records are returned in source order.
func (l *Loader) Load(ctx context.Context, ref string) ([]Entry, error) {
	var (
		data []byte
		err  error
	)
	if IsURL(ref) {
		data, err = l.fetch(ctx, ref)
	} else {
		data, err = os.ReadFile(ref)
		if err != nil {
			err = fmt.Errorf("reading dictionary %s: %w", ref, err)
		}
	}
	if err != nil {
		return nil, err
	}

	entries, err := Decode(data, ref)
	if err != nil {
		return nil, err
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", ref, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dictionary %s: %w", ref, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading dictionary response %s: %w", ref, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Ref: ref, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Decode parses a dictionary document. References ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func Decode(data []byte, ref string) ([]Entry, error) {
	var entries []Entry
	lower := strings.ToLower(ref)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decoding YAML dictionary %s: %w", ref, err)
		}
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding JSON dictionary %s: %w", ref, err)
	}
	return entries, nil
}
