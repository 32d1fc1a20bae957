// Package templates загружает каталог типов писем.
package templates

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Template описывает один тип письма.
type Template struct {
	Name            string   `yaml:"-"`
	Subject         string   `yaml:"subject"`
	LetterType      string   `yaml:"letter_type"`
	BodyIntro       string   `yaml:"body_intro"`
	MerchantID      int      `yaml:"merchant_id"`
	SendAmount      bool     `yaml:"send_amount"`
	DashAsDoubleDot bool     `yaml:"dash_as_double_dot"`
	RequiredColumns []string `yaml:"required_columns"`
	Closing         []string `yaml:"-"`
}

// Catalog набор шаблонов с общим заключением.
type Catalog struct {
	Default   string              `yaml:"default"`
	Closing   []string            `yaml:"closing"`
	Templates map[string]Template `yaml:"templates"`
}

// Load читает каталог из path или встроенный каталог, если path пуст.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read templates %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse разбирает YAML каталога и проверяет его.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(c.Templates) == 0 {
		return nil, fmt.Errorf("templates: catalog is empty")
	}
	if _, ok := c.Templates[c.Default]; !ok {
		return nil, fmt.Errorf("templates: default %q is not defined", c.Default)
	}
	for name, t := range c.Templates {
		if t.Subject == "" || t.MerchantID <= 0 {
			return nil, fmt.Errorf("templates: %q needs subject and merchant_id", name)
		}
		t.Name = name
		t.Closing = c.Closing
		c.Templates[name] = t
	}
	return &c, nil
}

// Names возвращает отсортированный список шаблонов.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Templates))
	for n := range c.Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a template by name. Script-style names such as
// "SPH_Fresh.py" or "MED_JPH_Signature" resolve to their base template.
// Unknown names fall back to the default template.
func (c *Catalog) Lookup(name string) (Template, bool) {
	key := strings.TrimSuffix(strings.TrimSpace(name), ".py")
	for _, suffix := range []string{"_Signature", "_Fresh"} {
		key = strings.TrimSuffix(key, suffix)
	}
	for n, t := range c.Templates {
		if strings.EqualFold(n, key) {
			return t, true
		}
	}
	return c.Templates[c.Default], false
}
