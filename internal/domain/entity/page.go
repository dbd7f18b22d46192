package entity

type PageContent struct {
	URL        string
	Title      string
	HTML       string
	UIElements []UIElement
}

type UIElement struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	AriaLabel string `json:"aria_label,omitempty"`
	Role      string `json:"role,omitempty"`
	Selector  string `json:"selector"`
}

// AXNode is a flattened entry of the browser accessibility tree.
type AXNode struct {
	Role        string `json:"role"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	Ignored     bool   `json:"ignored,omitempty"`
	Depth       int    `json:"depth"`
}

type Viewport struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Mobile bool `json:"mobile"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
