// Package proptree turns the token stream of the foreign diagram format into
// a generic nested property tree.
//
// The foreign grammar is ambiguous about single vs. repeated occurrences of
// structural elements (one Block vs. many). Rather than inferring arity from
// token shape, a fixed allowlist of structural keys is always promoted into
// an ordered sequence under a pluralized bucket key. The allowlist is data
// (bucketKeys), not control flow.
//
// Keys with the reserved '$' marker prefix and recognized configuration-only
// keys are parsed to stay token-aligned but dropped from the resulting tree.
package proptree

import (
	"strconv"
	"strings"

	"github.com/vk/mdlgraph/internal/token"
)

// Bucket keys under which repeated structural elements are collected.
const (
	BlocksKey      = "Blocks"
	LinesKey       = "Lines"
	SystemsKey     = "Systems"
	BranchesKey    = "Branches"
	PortsKey       = "Ports"
	AnnotationsKey = "Annotations"
	ArraysKey      = "Arrays"
	ObjectsKey     = "Objects"
)

// bucketKeys maps a structural element key to the bucket it is collected
// under. Promotion applies only when the key opens a nested body; a scalar
// property that happens to share a name (e.g. `Port "1"`) stays scalar.
var bucketKeys = map[string]string{
	"Block":      BlocksKey,
	"Line":       LinesKey,
	"System":     SystemsKey,
	"Branch":     BranchesKey,
	"Port":       PortsKey,
	"Annotation": AnnotationsKey,
	"Array":      ArraysKey,
	"Object":     ObjectsKey,
}

// reservedMarker prefixes keys that exist only for the foreign tool's own
// bookkeeping ($ObjectID, $ClassName, ...).
const reservedMarker = "$"

// configOnlyKeys are configuration-object keys whose content is irrelevant
// to the graph. They are parsed for alignment and discarded.
var configOnlyKeys = map[string]bool{
	"Simulink.ConfigSet":     true,
	"ConfigManagerSettings":  true,
	"EditorSettings":         true,
	"GraphicalInterface":     true,
	"ModelParameterDefaults": true,
}

// diagramKey is the special container whose nested block/system sequences
// belong to the enclosing scope, not one level deeper.
const diagramKey = "Diagram"

// Scalar is a leaf property value.
type Scalar struct {
	// Text is the quote-stripped textual form of the value. For bracketed
	// arrays it is the raw content between the outer brackets.
	Text string
	// Nums is non-nil when the value was a bracketed array whose elements
	// all parsed as numbers.
	Nums []float64
}

// Node is one level of the property tree.
type Node struct {
	// Scalars maps property keys to leaf values.
	Scalars map[string]Scalar
	// Children maps non-structural keys to singly-nested nodes.
	Children map[string]*Node
	// Buckets maps pluralized structural keys to ordered element sequences.
	Buckets map[string][]*Node
}

// NewNode returns an empty tree node.
func NewNode() *Node {
	return &Node{
		Scalars:  make(map[string]Scalar),
		Children: make(map[string]*Node),
		Buckets:  make(map[string][]*Node),
	}
}

// Str returns the textual value of a scalar property, or fallback when the
// property is absent.
func (n *Node) Str(key, fallback string) string {
	if s, ok := n.Scalars[key]; ok {
		return s.Text
	}
	return fallback
}

// Has reports whether the node carries the given scalar property.
func (n *Node) Has(key string) bool {
	_, ok := n.Scalars[key]
	return ok
}

// Bucket returns the ordered sequence collected under a bucket key.
func (n *Node) Bucket(bucket string) []*Node {
	return n.Buckets[bucket]
}

// Child returns the singly-nested node under a non-structural key, or nil.
func (n *Node) Child(key string) *Node {
	return n.Children[key]
}

// Parse consumes tokens starting at the cursor and returns the resulting
// node together with the updated cursor. Parsing stops at the matching
// closing brace (which is consumed) or at end of input.
func Parse(tokens []token.Token, pos int) (*Node, int) {
	node := NewNode()

	for pos < len(tokens) {
		tok := tokens[pos]
		if tok.Type == token.EOF {
			return node, pos
		}
		if tok.Type == token.RBrace {
			return node, pos + 1
		}

		key := tok.Value
		pos++

		if pos >= len(tokens) || tokens[pos].Type == token.EOF {
			node.Scalars[key] = Scalar{}
			return node, pos
		}

		next := tokens[pos]
		switch next.Type {
		case token.LBrace:
			var child *Node
			child, pos = Parse(tokens, pos+1)
			node.attach(key, child)
		case token.RBrace:
			// Keyless property: exists with no value, ignored downstream.
			node.Scalars[key] = Scalar{}
		default:
			if !discarded(key) {
				node.Scalars[key] = parseScalar(next)
			}
			pos++
		}
	}
	return node, pos
}

// attach places a parsed nested body under the right slot of the node,
// applying bucket promotion, the diagram merge, and the discard rules.
func (n *Node) attach(key string, child *Node) {
	if discarded(key) {
		return
	}
	if key == diagramKey {
		n.merge(child)
		return
	}
	if bucket, ok := bucketKeys[key]; ok {
		n.Buckets[bucket] = append(n.Buckets[bucket], child)
		return
	}
	n.Children[key] = child
}

// merge folds a diagram container's structural sequences into this scope.
func (n *Node) merge(other *Node) {
	for _, bucket := range []string{BlocksKey, SystemsKey, LinesKey} {
		if seq := other.Buckets[bucket]; len(seq) > 0 {
			n.Buckets[bucket] = append(n.Buckets[bucket], seq...)
		}
	}
}

// discarded reports whether the key's value must be dropped from the tree.
func discarded(key string) bool {
	if strings.HasPrefix(key, reservedMarker) {
		return true
	}
	if configOnlyKeys[key] {
		return true
	}
	return strings.Contains(key, ".ConfigSet")
}

// parseScalar converts a value token into a leaf value: quote-stripped
// string, numeric literal kept textual, or bracketed array.
func parseScalar(tok token.Token) Scalar {
	switch tok.Type {
	case token.Str:
		return Scalar{Text: unquote(tok.Value)}
	case token.Array:
		inner := strings.TrimSpace(tok.Value)
		inner = strings.TrimPrefix(inner, "[")
		inner = strings.TrimSuffix(inner, "]")
		return Scalar{Text: inner, Nums: ParseNumberList(inner)}
	default:
		return Scalar{Text: tok.Value}
	}
}

// unquote strips the surrounding quotes and resolves escaped quote and
// backslash sequences.
func unquote(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// ParseNumberList splits a delimiter-separated list on whitespace, commas,
// and semicolons and parses every element as a number. It returns nil when
// any element fails to parse or the list is empty.
func ParseNumberList(text string) []float64 {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ',' || r == ';'
	})
	if len(fields) == 0 {
		return nil
	}
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		nums = append(nums, v)
	}
	return nums
}
