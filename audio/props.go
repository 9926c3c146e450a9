package audio

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Device is anything with settable properties, addressed by name from the REPL.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
	Keys() []string
}

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return errors.Errorf("unknown property %s", key)
	}
	set := p.setters[key]
	if err := set(value, prop); err != nil {
		return errors.Wrapf(err, "set property %s", key)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, errors.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	if _, ok := p.properties[key]; ok {
		return nil, errors.Errorf("property %s already registered", key)
	}
	var prop atomic.Value
	if err := set(init, &prop); err != nil {
		return nil, err
	}
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, nil
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setEnvParam = setFloat64(0.0005, 15)
	setLevel    = setFloat64(-40, 10)
)

func setFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return errors.Errorf("value is not a float64: %v", v)
		}
		if f < min || f > max {
			return errors.Errorf("property value is not in valid range %v - %v: %v", min, max, f)
		}
		dest.Store(f)
		return nil
	}
}

func setOneOf(values ...string) setter {
	return func(v interface{}, dest *atomic.Value) error {
		s, ok := v.(string)
		if !ok {
			return errors.Errorf("value is not a string: %v", v)
		}
		for _, allowed := range values {
			if s == allowed {
				dest.Store(s)
				return nil
			}
		}
		return errors.Errorf("%q is not one of %v", s, values)
	}
}
