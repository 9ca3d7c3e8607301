package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v2"

	"grimm.is/netdevd/internal/setting"
)

// hclDocument is the HCL shape of Document. Type blocks are slices so a
// duplicated block is reported as ErrMultipleTypes rather than a decode
// diagnostic.
type hclDocument struct {
	Connection hclConnection `hcl:"connection,block"`
	Generic    []hclGeneric  `hcl:"generic,block"`
	Loopback   []hclLoopback `hcl:"loopback,block"`
}

type hclConnection struct {
	ID            string `hcl:"id"`
	UUID          string `hcl:"uuid,optional"`
	Type          string `hcl:"type,optional"`
	InterfaceName string `hcl:"interface_name,optional"`
	Autoconnect   *bool  `hcl:"autoconnect,optional"`
}

type hclGeneric struct{}

type hclLoopback struct {
	MTU int `hcl:"mtu,optional"`
}

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".hcl", ".json", ".yaml", ".yml"}

// LoadFile reads a profile file, choosing the format from its extension.
func LoadFile(path string) (*setting.Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var c *setting.Connection
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		c, err = DecodeJSON(data)
	case ".yaml", ".yml":
		c, err = DecodeYAML(data)
	case ".hcl":
		c, err = DecodeHCL(data, path)
	default:
		return nil, fmt.Errorf("%s: unsupported profile format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDir loads every profile file in dir in name order. A missing
// directory yields no profiles.
func LoadDir(dir string) ([]*setting.Connection, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasProfileExt(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]*setting.Connection, 0, len(names))
	for _, name := range names {
		c, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func hasProfileExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DecodeJSON parses a JSON profile document.
func DecodeJSON(data []byte) (*setting.Connection, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return doc.ToConnection()
}

// DecodeYAML parses a YAML profile document. The generic marker is
// written as "generic: {}".
func DecodeYAML(data []byte) (*setting.Connection, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	return doc.ToConnection()
}

// DecodeHCL parses an HCL profile document.
func DecodeHCL(data []byte, filename string) (*setting.Connection, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	var h hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &h); diags.HasErrors() {
		return nil, fmt.Errorf("HCL decode error: %s", diags.Error())
	}
	if len(h.Generic)+len(h.Loopback) > 1 {
		return nil, ErrMultipleTypes
	}

	doc := Document{
		Connection: ConnectionDoc{
			ID:            h.Connection.ID,
			UUID:          h.Connection.UUID,
			Type:          h.Connection.Type,
			InterfaceName: h.Connection.InterfaceName,
			Autoconnect:   h.Connection.Autoconnect,
		},
	}
	if len(h.Generic) == 1 {
		doc.Generic = &GenericDoc{}
	}
	if len(h.Loopback) == 1 {
		doc.Loopback = &LoopbackDoc{MTU: h.Loopback[0].MTU}
	}
	return doc.ToConnection()
}

// EncodeHCL renders a profile as canonical HCL.
func EncodeHCL(c *setting.Connection) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	conn := root.AppendNewBlock("connection", nil).Body()
	conn.SetAttributeValue("id", cty.StringVal(c.Conn.ID))
	conn.SetAttributeValue("uuid", cty.StringVal(c.Conn.UUID))
	conn.SetAttributeValue("type", cty.StringVal(c.Type()))
	if c.Conn.InterfaceName != "" {
		conn.SetAttributeValue("interface_name", cty.StringVal(c.Conn.InterfaceName))
	}
	if !c.Conn.Autoconnect {
		conn.SetAttributeValue("autoconnect", cty.False)
	}

	switch ts := c.TypeSetting.(type) {
	case *setting.Generic:
		root.AppendNewline()
		root.AppendNewBlock("generic", nil)
	case *setting.Loopback:
		root.AppendNewline()
		lo := root.AppendNewBlock("loopback", nil).Body()
		if ts.MTU != 0 {
			lo.SetAttributeValue("mtu", cty.NumberIntVal(int64(ts.MTU)))
		}
	}

	return hclwrite.Format(f.Bytes())
}

// EncodeJSON renders a profile as indented JSON.
func EncodeJSON(c *setting.Connection) ([]byte, error) {
	return json.MarshalIndent(NewDocument(c), "", "  ")
}

// EncodeYAML renders a profile as YAML.
func EncodeYAML(c *setting.Connection) ([]byte, error) {
	return yaml.Marshal(NewDocument(c))
}
