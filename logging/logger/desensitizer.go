package logger

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"

	"github.com/ncobase/accountdesk/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// bearerPattern masks bearer tokens that end up inside free-form strings
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`)

// Desensitizer handles sensitive data masking in log fields
type Desensitizer struct {
	config   *config.Desensitization
	patterns []*regexp.Regexp
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	if cfg == nil {
		cfg = config.DefaultDesensitization()
	}
	d := &Desensitizer{
		config:   cfg,
		patterns: []*regexp.Regexp{bearerPattern},
	}
	for _, pattern := range cfg.CustomPatterns {
		if regex, err := regexp.Compile(pattern); err == nil {
			d.patterns = append(d.patterns, regex)
		}
	}
	return d
}

// DesensitizeFields processes log fields and masks sensitive data
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}
	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

// DeepDesensitize masks an arbitrary value
func (d *Desensitizer) DeepDesensitize(data any) any {
	if !d.config.Enabled {
		return data
	}
	return d.desensitizeValue("", data, 0)
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > 10 {
		return value
	}
	if d.isSensitiveField(key) {
		return d.mask(value)
	}
	if err, ok := value.(error); ok {
		return d.desensitizeString(err.Error())
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return d.desensitizeString(v.String())
	case reflect.Map:
		out := make(map[string]any, v.Len())
		for _, k := range v.MapKeys() {
			ks, ok := k.Interface().(string)
			if !ok {
				return value
			}
			out[ks] = d.desensitizeValue(ks, v.MapIndex(k).Interface(), depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return value
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = d.desensitizeValue("", v.Index(i).Interface(), depth+1)
		}
		return out
	case reflect.Struct:
		// Round-trip through JSON so json tags drive field matching.
		raw, err := json.Marshal(v.Interface())
		if err != nil {
			return value
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return value
		}
		return d.desensitizeValue(key, m, depth+1)
	default:
		return value
	}
}

func normalizeField(name string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(name))
}

// isSensitiveField checks if field name contains sensitive keywords
func (d *Desensitizer) isSensitiveField(fieldName string) bool {
	if fieldName == "" {
		return false
	}
	name := normalizeField(fieldName)
	for _, f := range d.config.SensitiveFields {
		sensitive := normalizeField(f)
		if d.config.ExactFieldMatch {
			if name == sensitive {
				return true
			}
		} else if strings.Contains(name, sensitive) {
			return true
		}
	}
	return false
}

func (d *Desensitizer) desensitizeString(str string) string {
	for _, pattern := range d.patterns {
		str = pattern.ReplaceAllString(str, d.fixedMask())
	}
	return str
}

func (d *Desensitizer) fixedMask() string {
	return strings.Repeat(d.config.MaskChar, d.config.FixedMaskLength)
}

func (d *Desensitizer) mask(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return s
	}
	return d.fixedMask()
}

// desensitizeHook applies the desensitizer to every entry
type desensitizeHook struct {
	d *Desensitizer
}

func (h *desensitizeHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *desensitizeHook) Fire(entry *logrus.Entry) error {
	entry.Data = h.d.DesensitizeFields(entry.Data)
	entry.Message = h.d.desensitizeString(entry.Message)
	return nil
}
