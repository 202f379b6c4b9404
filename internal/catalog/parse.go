package catalog

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// MaxFileBytes bounds any single catalog YAML file.
const MaxFileBytes = 1 << 20 // 1 MiB

// readYAMLFile reads path, enforcing the size bound and UTF-8 requirement,
// and returns its raw bytes for decoding.
func readYAMLFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, crmerr.NotFound("E_NOT_FOUND", fmt.Sprintf("catalog file not found: %s", path))
		}
		return nil, crmerr.Decode(fmt.Sprintf("stat %s", path), err)
	}
	if info.Size() > MaxFileBytes {
		return nil, crmerr.Decode(fmt.Sprintf("%s exceeds %d byte limit", path, MaxFileBytes), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crmerr.Decode(fmt.Sprintf("read %s", path), err)
	}
	if !utf8.Valid(data) {
		return nil, crmerr.Decode(fmt.Sprintf("%s is not valid UTF-8", path), nil)
	}
	return data, nil
}

// decodeResource parses raw YAML into a Resource. Known fields are typed;
// unknown top-level fields are preserved verbatim under Metadata instead of
// being rejected, so forward-compatible catalog extensions round-trip.
// yaml.v3's default decoder already refuses custom tags and never executes
// code, satisfying the safe-loader requirement without an extra dependency.
func decodeResource(data []byte) (*model.Resource, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, crmerr.Decode("invalid YAML", err)
	}

	var r model.Resource
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, crmerr.Decode("schema mismatch", err)
	}

	known := map[string]bool{
		"id": true, "type": true, "name": true, "description": true,
		"summary": true, "version": true, "author": true, "file_type": true,
		"source": true, "install_path": true, "updated_at": true, "metadata": true, "dependencies": true,
	}
	extra := map[string]any{}
	for k, v := range raw {
		if !known[k] {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		if r.Metadata == nil {
			r.Metadata = map[string]any{}
		}
		for k, v := range extra {
			r.Metadata[k] = v
		}
	}
	return &r, nil
}

func decodeIndex(data []byte) (*model.Index, error) {
	var idx model.Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, crmerr.Decode("invalid index YAML", err)
	}
	return &idx, nil
}
