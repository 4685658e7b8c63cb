package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	CorePackage       = "@myrmex/core"
	DefaultConfigPath = "./config"
	EnvPrefix         = "MYRMEX_"
)

var (
	descriptorNames = []string{"myrmex.json", "myrmex.yml", "myrmex.yaml"}
	configExts      = map[string]bool{".json": true, ".yml": true, ".yaml": true}
)

// Project is the content of a project descriptor once every configuration
// layer has been applied
type Project struct {
	Name       string   `json:"name" yaml:"name"`
	Plugins    []string `json:"plugins" yaml:"plugins"`
	ConfigPath string   `json:"configPath,omitempty" yaml:"configPath,omitempty"`
	Config     Tree     `json:"config" yaml:"config"`

	Root string `json:"-" yaml:"-"`
}

type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ResolveProjectRoot walks up from dir until it finds a project. Running
// outside of a project is valid, so a miss is not an error.
func ResolveProjectRoot(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		if isProjectRoot(abs) {
			return abs, true
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}

		abs = parent
	}
}

func isProjectRoot(dir string) bool {
	if data, err := ioutil.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var m manifest

		if err := json.Unmarshal(data, &m); err == nil {
			if _, ok := m.Dependencies[CorePackage]; ok {
				return true
			}
			if _, ok := m.DevDependencies[CorePackage]; ok {
				return true
			}
		}
	}

	for _, name := range descriptorNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}

	return false
}

// LoadProject reads the project descriptor of root, merges the files of the
// configuration directory and applies environment overrides. A missing
// descriptor or directory yields an empty configuration.
func LoadProject(root string, environ []string) (*Project, error) {
	p := &Project{Root: root}

	found, err := readDescriptor(root, p)
	if err != nil {
		return nil, err
	}

	if p.Config == nil {
		p.Config = Tree{}
	}

	if found {
		if p.ConfigPath == "" {
			p.ConfigPath = DefaultConfigPath
		}

		if err := p.loadConfigDir(); err != nil {
			return nil, err
		}
	}

	ApplyEnv(p.Config, environ)

	return p, nil
}

func readDescriptor(root string, p *Project) (bool, error) {
	for _, name := range descriptorNames {
		path := filepath.Join(root, name)

		data, err := ioutil.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return false, errors.WithStack(err)
		}

		doc, err := decode(path, data)
		if err != nil {
			return false, errors.Wrapf(err, "invalid project descriptor %s", name)
		}

		m, ok := doc.(map[string]interface{})
		if !ok {
			return false, errors.Errorf("invalid project descriptor %s: expected an object", name)
		}

		if v, ok := m["name"].(string); ok {
			p.Name = v
		}

		if v, ok := m["configPath"].(string); ok {
			p.ConfigPath = v
		}

		if v, ok := m["plugins"].([]interface{}); ok {
			for _, id := range v {
				s, ok := id.(string)
				if !ok {
					return false, errors.Errorf("invalid project descriptor %s: plugin identifiers must be strings", name)
				}
				p.Plugins = append(p.Plugins, s)
			}
		}

		if v, ok := m["config"].(map[string]interface{}); ok {
			p.Config = Tree(v)
		}

		return true, nil
	}

	return false, nil
}

func (p *Project) loadConfigDir() error {
	dir, err := homedir.Expand(p.ConfigPath)
	if err != nil {
		return errors.WithStack(err)
	}

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.Root, dir)
	}

	fis, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}

	sort.Slice(fis, func(i, j int) bool { return fis[i].Name() < fis[j].Name() })

	for _, fi := range fis {
		ext := filepath.Ext(fi.Name())

		if fi.IsDir() || !configExts[ext] {
			continue
		}

		path := filepath.Join(dir, fi.Name())

		data, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.WithStack(err)
		}

		doc, err := decode(path, data)
		if err != nil {
			return errors.Wrapf(err, "invalid configuration file %s", fi.Name())
		}

		key := strings.TrimSuffix(fi.Name(), ext)

		src, ok := doc.(map[string]interface{})
		if !ok {
			p.Config[key] = doc
			continue
		}

		if p.Config.Map(key) == nil {
			p.Config[key] = map[string]interface{}{}
		}

		sub := Tree(p.Config.Map(key))

		if err := sub.Merge(src); err != nil {
			return err
		}
	}

	return nil
}

// ApplyEnv applies PREFIX_a_b=value variables as config.a.b = value. The
// strings "true" and "false" become booleans, anything else stays a string.
func ApplyEnv(t Tree, environ []string) {
	sorted := append([]string{}, environ...)
	sort.Strings(sorted)

	for _, kv := range sorted {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}

		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], EnvPrefix)
		if key == "" {
			continue
		}

		segments := strings.Split(key, "_")
		if contains(segments, "") {
			continue
		}

		t.Set(strings.Join(segments, "."), coerce(parts[1]))
	}
}

func coerce(v string) interface{} {
	switch v {
	case "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}

func decode(path string, data []byte) (interface{}, error) {
	var doc interface{}

	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return Normalize(doc), nil
}

// ReadDocument decodes a JSON or YAML file into a string keyed document
func ReadDocument(path string) (map[string]interface{}, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid document %s", path)
	}

	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("invalid document %s: expected an object", path)
	}

	return m, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
