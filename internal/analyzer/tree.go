package analyzer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/internal/logger"
	"go-a11y-inspector/pkg/models"
)

// ElementNode is one node of the parsed view hierarchy. Nodes live in the
// flat arena of their ElementTree and reference each other by index, so the
// tree is cycle-free by construction and safe for concurrent reads.
type ElementNode struct {
	ClassName   string
	ResourceID  string
	Text        string
	ContentDesc string
	Bounds      models.Bounds

	// Role tags, resolved once during tree construction.
	Interactive  bool
	ImageLike    bool
	HeadingLevel int // 0 = not a heading

	Parent   int // arena index, -1 for the root
	Children []int
}

// ElementTree is a flat arena of nodes in document (depth-first, pre-order)
// order. Index 0 is the root. The tree is immutable after construction.
type ElementTree struct {
	Nodes []ElementNode
}

// Root returns the root node.
func (t *ElementTree) Root() *ElementNode {
	return &t.Nodes[0]
}

// Len returns the number of nodes in the tree.
func (t *ElementTree) Len() int {
	return len(t.Nodes)
}

// imageClassMarkers are class-name fragments that tag an element as image-like.
var imageClassMarkers = []string{"ImageView", "ImageButton", "Icon"}

// BuildTree parses layout XML into an element tree with resolved geometry and
// role tags. Malformed XML, an empty document, or unresolvable root geometry
// abort with a parse error.
func BuildTree(layoutXML string) (*ElementTree, error) {
	decoder := xml.NewDecoder(strings.NewReader(layoutXML))
	tree := &ElementTree{}

	// Stack of arena indices of currently open elements.
	var stack []int

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParseError("malformed layout XML", err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			node := buildNode(tok)
			idx := len(tree.Nodes)
			if len(stack) == 0 {
				if idx != 0 {
					// A second top-level element would mean two roots.
					return nil, apperrors.NewParseError("layout XML has more than one root element", nil)
				}
				node.Parent = -1
			} else {
				node.Parent = stack[len(stack)-1]
			}
			tree.Nodes = append(tree.Nodes, node)
			if node.Parent >= 0 {
				tree.Nodes[node.Parent].Children = append(tree.Nodes[node.Parent].Children, idx)
			}
			stack = append(stack, idx)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(tree.Nodes) == 0 {
		return nil, apperrors.NewParseError("layout XML contains no elements", nil)
	}

	// The root must carry usable geometry; other elements degrade to a
	// zero rect.
	if !tree.Nodes[0].Bounds.Valid() {
		return nil, apperrors.NewParseError("unresolvable root geometry", nil)
	}
	for i := 1; i < len(tree.Nodes); i++ {
		if !tree.Nodes[i].Bounds.Valid() {
			logger.ForComponent("tree_builder").WithField("class", tree.Nodes[i].ClassName).
				Debug("element has unresolvable geometry, using zero rect")
			tree.Nodes[i].Bounds = models.Bounds{}
		}
	}

	return tree, nil
}

// buildNode materializes one element from its start tag, resolving geometry
// and role tags.
func buildNode(start xml.StartElement) ElementNode {
	attrs := make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		attrs[a.Name.Local] = a.Value
	}

	node := ElementNode{
		ClassName:   attrs["class"],
		ResourceID:  attrs["resource-id"],
		Text:        attrs["text"],
		ContentDesc: attrs["content-desc"],
	}
	if node.ClassName == "" {
		// uiautomator dumps put the class in an attribute; other layouts
		// use the tag name itself.
		node.ClassName = start.Name.Local
	}

	node.Bounds = resolveBounds(attrs)

	node.Interactive = attrs["clickable"] == "true" ||
		attrs["focusable"] == "true" ||
		attrs["long-clickable"] == "true" ||
		strings.Contains(node.ClassName, "Button")
	node.ImageLike = isImageClass(node.ClassName)
	node.HeadingLevel = resolveHeadingLevel(attrs, node.ClassName)

	return node
}

// resolveBounds parses geometry from either the native "[l,t][r,b]" bounds
// attribute or origin+size attributes. An unparseable rectangle comes back
// invalid (right < left).
func resolveBounds(attrs map[string]string) models.Bounds {
	if raw, ok := attrs["bounds"]; ok {
		if b, err := parseBoundsAttr(raw); err == nil {
			return b
		}
		return models.Bounds{0, 0, -1, -1}
	}

	x, okX := atoiAttr(attrs, "x")
	y, okY := atoiAttr(attrs, "y")
	w, okW := atoiAttr(attrs, "width")
	h, okH := atoiAttr(attrs, "height")
	if okX && okY && okW && okH && w >= 0 && h >= 0 {
		return models.Bounds{x, y, x + w, y + h}
	}

	return models.Bounds{0, 0, -1, -1}
}

// parseBoundsAttr parses the "[left,top][right,bottom]" form.
func parseBoundsAttr(raw string) (models.Bounds, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "["), "]")
	corners := strings.Split(trimmed, "][")
	if len(corners) != 2 {
		return models.Bounds{}, fmt.Errorf("bounds %q: expected two corner pairs", raw)
	}

	var coords [4]int
	for i, corner := range corners {
		parts := strings.Split(corner, ",")
		if len(parts) != 2 {
			return models.Bounds{}, fmt.Errorf("bounds %q: corner %q is not x,y", raw, corner)
		}
		for j, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return models.Bounds{}, fmt.Errorf("bounds %q: %w", raw, err)
			}
			coords[i*2+j] = v
		}
	}

	b := models.Bounds{coords[0], coords[1], coords[2], coords[3]}
	if !b.Valid() {
		return models.Bounds{}, fmt.Errorf("bounds %q: negative dimensions", raw)
	}
	return b, nil
}

func atoiAttr(attrs map[string]string, key string) (int, bool) {
	raw, ok := attrs[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func isImageClass(className string) bool {
	for _, marker := range imageClassMarkers {
		if strings.Contains(className, marker) {
			return true
		}
	}
	return false
}

// resolveHeadingLevel resolves the heading role. An explicit heading-level
// attribute wins; otherwise an hN fragment in the class name decides, with a
// bare Heading/Title class defaulting to level 1. Anything else is not a
// heading.
func resolveHeadingLevel(attrs map[string]string, className string) int {
	if raw, ok := attrs["heading-level"]; ok {
		if level, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && level >= 1 && level <= 6 {
			return level
		}
		return 0
	}
	if attrs["heading"] == "true" {
		if level := headingLevelFromClass(className); level > 0 {
			return level
		}
		return 1
	}

	lower := strings.ToLower(className)
	if level := headingLevelFromClass(className); level > 0 &&
		(strings.Contains(lower, "heading") || strings.Contains(lower, "title")) {
		return level
	}
	if strings.Contains(className, "Heading") || strings.Contains(className, "Title") {
		return 1
	}
	return 0
}

func headingLevelFromClass(className string) int {
	lower := strings.ToLower(className)
	for level := 1; level <= 6; level++ {
		if strings.Contains(lower, fmt.Sprintf("h%d", level)) {
			return level
		}
	}
	return 0
}
