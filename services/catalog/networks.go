package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const unknownOperator = "Unknown"

// NetworkGroup lists the operators offering one network type ("4G") or
// speed class.
type NetworkGroup struct {
	Type      string   `json:"type"`
	Operators []string `json:"operators"`
}

// NetworkGroups keeps groups in order of first encounter.
type NetworkGroups []NetworkGroup

func (g NetworkGroups) Lookup(networkType string) ([]string, bool) {
	for _, group := range g {
		if group.Type == networkType {
			return group.Operators, true
		}
	}
	return nil, false
}

// Lines renders "4G: Mtn, Airtel" per group.
func (g NetworkGroups) Lines() []string {
	lines := make([]string, 0, len(g))
	for _, group := range g {
		lines = append(lines, group.Type+": "+strings.Join(group.Operators, ", "))
	}
	return lines
}

type groupBuilder struct {
	index  map[string]int
	seen   []map[string]struct{}
	groups NetworkGroups
}

func newGroupBuilder() *groupBuilder {
	return &groupBuilder{index: make(map[string]int)}
}

// add records operator under networkType, ignoring case duplicates.
func (b *groupBuilder) add(networkType, operator string) {
	networkType = strings.TrimSpace(networkType)
	if networkType == "" {
		return
	}
	name := OperatorName(operator)

	i, ok := b.index[networkType]
	if !ok {
		i = len(b.groups)
		b.index[networkType] = i
		b.groups = append(b.groups, NetworkGroup{Type: networkType, Operators: []string{}})
		b.seen = append(b.seen, make(map[string]struct{}))
	}

	key := strings.ToLower(name)
	if _, dup := b.seen[i][key]; dup {
		return
	}
	b.seen[i][key] = struct{}{}
	b.groups[i].Operators = append(b.groups[i].Operators, name)
}

func (b *groupBuilder) build() NetworkGroups {
	if b.groups == nil {
		return NetworkGroups{}
	}
	return b.groups
}

// OperatorName normalizes "MTN" and "mtn" alike to "Mtn".
func OperatorName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return unknownOperator
	}
	lower := strings.ToLower(name)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}
