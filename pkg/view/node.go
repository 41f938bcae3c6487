package view

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindFragment             // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Props holds element attributes.
type Props map[string]any

// Node is the presentable output unit. Everything a component produces,
// including guard fallbacks and resource match arms, is a Node tree.
type Node struct {
	Kind     Kind
	Tag      string  // Element tag name (e.g., "div")
	Props    Props   // Attributes
	Children []*Node // Child nodes
	Text     string  // For KindText
}

// Component is anything that can render to a Node.
type Component interface {
	Render() *Node
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *Node
}

// Render implements Component.
func (f *FuncComponent) Render() *Node {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *Node) Component {
	return &FuncComponent{render: render}
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// El builds an element node. Args may be Attr, *Node, Node slices, string
// (treated as a text child), or nil (skipped).
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
			// skip
		case Attr:
			if n.Props == nil {
				n.Props = make(Props)
			}
			n.Props[a.Key] = a.Value
		case *Node:
			if a != nil {
				n.Children = append(n.Children, a)
			}
		case []*Node:
			for _, child := range a {
				if child != nil {
					n.Children = append(n.Children, child)
				}
			}
		case string:
			n.Children = append(n.Children, Text(a))
		}
	}
	return n
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Fragment groups children without a wrapping element.
func Fragment(children ...*Node) *Node {
	n := &Node{Kind: KindFragment}
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// Class is a shorthand for the class attribute.
func Class(name string) Attr {
	return Attr{Key: "class", Value: name}
}

// Div builds a <div> element.
func Div(args ...any) *Node { return El("div", args...) }

// Span builds a <span> element.
func Span(args ...any) *Node { return El("span", args...) }

// Button builds a <button> element.
func Button(args ...any) *Node { return El("button", args...) }
