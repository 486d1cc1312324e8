package validate

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// yaml.v3 reports positions inline in its error text, e.g.
// "yaml: line 12: mapping values are not allowed in this context".
var yamlErrLine = regexp.MustCompile(`line (\d+):`)

// parseDocument decodes content into a yaml.Node tree. The node API keeps
// key order and per-node line numbers, both of which the later phases need.
// On failure it returns exactly one ERROR diagnostic; there is no partial
// recovery. A syntactically empty document parses to a nil node.
func parseDocument(content string) (*yaml.Node, *Diagnostic) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return nil, &Diagnostic{
			Line:     lineFromYAMLError(err),
			Kind:     KindYAMLSyntaxError,
			Message:  strings.TrimPrefix(err.Error(), "yaml: "),
			Severity: SeverityError,
		}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	return resolveAlias(root.Content[0]), nil
}

func lineFromYAMLError(err error) int {
	m := yamlErrLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return n
}

// resolveAlias follows alias nodes to their anchors so that schema rules see
// the referenced content. Nil-safe.
func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// mappingValue finds key in a mapping node, comparing the rendered key text.
// Matching by Value rather than tag sidesteps the YAML 1.1 quirk where the
// bare key "on" resolves to a boolean. Returns the key and value nodes, or
// nils when absent.
func mappingValue(node *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Value == key {
			return k, resolveAlias(node.Content[i+1])
		}
	}
	return nil, nil
}

// mappingPairs returns the (key, value) node pairs of a mapping in document
// order, with alias values resolved.
func mappingPairs(node *yaml.Node) [][2]*yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{node.Content[i], resolveAlias(node.Content[i+1])})
	}
	return pairs
}

func isMapping(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.MappingNode
}

func isSequence(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.SequenceNode
}

func isScalar(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode
}

// isNullScalar reports whether node is an explicit or implicit YAML null,
// such as the value of a bare "jobs:" line.
func isNullScalar(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
