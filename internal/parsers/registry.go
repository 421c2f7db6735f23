package parsers

import "fmt"

// Registry keys parser implementations by the declared parser_type string
// ingestion requests operate on (spec §9 "Polymorphic parsers" — no
// inheritance, a registry keyed by parser type).
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry wires the four built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register("sonarqube", SonarQube{})
	r.Register("sarif", SARIF{})
	r.Register("xray", Xray{})
	r.Register("tenable", Tenable{})
	return r
}

// Register adds or overrides a parser under a parser_type key.
func (r *Registry) Register(parserType string, p Parser) {
	r.parsers[parserType] = p
}

// Get returns the parser registered for parserType.
func (r *Registry) Get(parserType string) (Parser, error) {
	p, ok := r.parsers[parserType]
	if !ok {
		return nil, fmt.Errorf("no parser registered for type %q", parserType)
	}
	return p, nil
}
