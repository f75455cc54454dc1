package tools

// Property is a single named argument of a tool's input schema.
type Property struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Schema declares the arguments a tool accepts, in declaration order.
type Schema struct {
	Type       string     `json:"type" yaml:"type"`
	Properties []Property `json:"properties" yaml:"properties"`
	Required   []string   `json:"required,omitempty" yaml:"required,omitempty"`
}

// ObjectSchema returns an object schema with the given properties.
func ObjectSchema(props ...Property) Schema {
	return Schema{Type: "object", Properties: props}
}

// WithRequired returns a copy of s marking names as required.
func (s Schema) WithRequired(names ...string) Schema {
	s.Required = append(append([]string(nil), s.Required...), names...)
	return s
}

// IsRequired reports whether name is a required property.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
