package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileType names a source grammar that can be read into a Value.
type FileType string

const (
	FileTypeJSON  FileType = "json"
	FileTypeJSON5 FileType = "json5"
	FileTypeYAML  FileType = "yaml"
	FileTypeTOML  FileType = "toml"
	FileTypeAuto  FileType = "auto"
)

// FileTypes lists the accepted values of an input type option.
var FileTypes = []FileType{FileTypeAuto, FileTypeJSON, FileTypeJSON5, FileTypeYAML, FileTypeTOML}

var extensions = map[string]FileType{
	".json":  FileTypeJSON,
	".json5": FileTypeJSON5,
	".jsonc": FileTypeJSON5,
	".yaml":  FileTypeYAML,
	".yml":   FileTypeYAML,
	".toml":  FileTypeTOML,
}

// ParseFileType checks s against FileTypes. Empty means FileTypeAuto.
func ParseFileType(s string) (FileType, error) {
	if s == "" {
		return FileTypeAuto, nil
	}
	ft := FileType(strings.ToLower(s))
	for _, known := range FileTypes {
		if ft == known {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown input type %q", s)
}

// ParseFile reads path and decodes it as ft. With FileTypeAuto the type
// comes from the file extension.
func ParseFile(path string, ft FileType) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if ft == "" || ft == FileTypeAuto {
		ft = DetectFileType(path)
	}
	return ParseByType(data, ft)
}

// ParseData decodes inline content. With FileTypeAuto the type is guessed
// with DetectFileTypeFromContent.
func ParseData(data []byte, ft FileType) (*Value, error) {
	if ft == "" || ft == FileTypeAuto {
		detected, err := DetectFileTypeFromContent(data)
		if err != nil {
			return nil, fmt.Errorf("unable to detect input type from content; set the input type explicitly: %w", err)
		}
		ft = detected
	}
	return ParseByType(data, ft)
}

// ParseByType decodes data as ft. Anything unrecognised goes through the
// tolerant parser.
func ParseByType(data []byte, ft FileType) (*Value, error) {
	switch ft {
	case FileTypeJSON:
		return Parse(string(data))
	case FileTypeYAML:
		return ParseYAML(data)
	case FileTypeTOML:
		return ParseTOML(data)
	}
	return DefaultTolerant().Parse(string(data))
}

// DetectFileType maps a file extension to a FileType. Unknown extensions
// get FileTypeJSON5, the most permissive JSON grammar.
func DetectFileType(path string) FileType {
	if ft, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return ft
	}
	return FileTypeJSON5
}

// DetectFileTypeFromContent tries each grammar from strictest to loosest
// and returns the first that accepts data. YAML goes last since it accepts
// almost any text.
func DetectFileTypeFromContent(data []byte) (FileType, error) {
	text := bytes.TrimSpace(data)
	if len(text) == 0 {
		return "", errors.New("empty content")
	}
	for _, ft := range []FileType{FileTypeJSON, FileTypeTOML, FileTypeJSON5, FileTypeYAML} {
		if _, err := ParseByType(text, ft); err == nil {
			return ft, nil
		}
	}
	return "", errors.New("unable to detect file type by content")
}

// ParseYAML decodes YAML, keeping mapping order. Aliases are expanded.
func ParseYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	v, err := yamlValue(&root)
	if err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return v, nil
}

func yamlValue(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		var scalar interface{}
		if err := n.Decode(&scalar); err != nil {
			return nil, err
		}
		return FromInterface(scalar), nil
	case yaml.SequenceNode:
		items := make([]*Value, len(n.Content))
		for i, c := range n.Content {
			item, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			member, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, member)
		}
		return ObjectValue(obj), nil
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)
}

// ParseTOML decodes TOML. go-toml yields maps, so tables come back with
// sorted keys.
func ParseTOML(data []byte) (*Value, error) {
	var doc interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	return FromInterface(doc), nil
}
