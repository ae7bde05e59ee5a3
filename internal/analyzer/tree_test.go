package analyzer

import (
	"testing"

	apperrors "go-a11y-inspector/internal/errors"
	"go-a11y-inspector/pkg/models"
)

func TestBuildTree_ParsesHierarchy(t *testing.T) {
	layout := `<hierarchy bounds="[0,0][1080,1920]">
		<node class="android.widget.FrameLayout" bounds="[0,0][1080,1920]">
			<node class="android.widget.TextView" resource-id="app:id/title" text="Settings" bounds="[40,100][600,180]"/>
			<node class="android.widget.Button" text="Save" bounds="[40,200][400,320]" clickable="true"/>
		</node>
	</hierarchy>`

	tree, err := BuildTree(layout)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	if tree.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", tree.Len())
	}

	// Pre-order: hierarchy, FrameLayout, TextView, Button.
	root := tree.Root()
	if root.ClassName != "hierarchy" || root.Parent != -1 {
		t.Errorf("unexpected root: class=%q parent=%d", root.ClassName, root.Parent)
	}
	frame := &tree.Nodes[1]
	if frame.ClassName != "android.widget.FrameLayout" || frame.Parent != 0 {
		t.Errorf("unexpected frame node: class=%q parent=%d", frame.ClassName, frame.Parent)
	}
	if len(frame.Children) != 2 || frame.Children[0] != 2 || frame.Children[1] != 3 {
		t.Errorf("unexpected frame children: %v", frame.Children)
	}

	text := &tree.Nodes[2]
	if text.Text != "Settings" || text.ResourceID != "app:id/title" {
		t.Errorf("unexpected text node: %+v", text)
	}
	if text.Bounds != (models.Bounds{40, 100, 600, 180}) {
		t.Errorf("unexpected text bounds: %v", text.Bounds)
	}
	if text.Interactive {
		t.Error("text node must not be interactive")
	}

	button := &tree.Nodes[3]
	if !button.Interactive {
		t.Error("clickable button must be interactive")
	}
}

func TestBuildTree_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"malformed XML", `<hierarchy bounds="[0,0][10,10]"><node></hierarchy>`},
		{"empty document", ``},
		{"whitespace only", `   `},
		{"two roots", `<a bounds="[0,0][10,10]"></a><b bounds="[0,0][10,10]"></b>`},
		{"root without geometry", `<hierarchy><node bounds="[0,0][10,10]"/></hierarchy>`},
		{"root with garbage bounds", `<hierarchy bounds="[oops][10,10]"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.layout)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeParse) {
				t.Errorf("expected parse error type, got %v", err)
			}
		})
	}
}

func TestBuildTree_OriginSizeGeometry(t *testing.T) {
	layout := `<screen x="0" y="0" width="1080" height="1920">
		<view x="10" y="20" width="100" height="50"/>
	</screen>`

	tree, err := BuildTree(layout)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	if tree.Root().Bounds != (models.Bounds{0, 0, 1080, 1920}) {
		t.Errorf("unexpected root bounds: %v", tree.Root().Bounds)
	}
	if tree.Nodes[1].Bounds != (models.Bounds{10, 20, 110, 70}) {
		t.Errorf("unexpected child bounds: %v", tree.Nodes[1].Bounds)
	}
}

func TestBuildTree_ChildWithBadGeometryDegrades(t *testing.T) {
	layout := `<hierarchy bounds="[0,0][100,100]">
		<node class="Broken" bounds="[5,5][1,1]"/>
	</hierarchy>`

	tree, err := BuildTree(layout)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	if tree.Nodes[1].Bounds != (models.Bounds{}) {
		t.Errorf("expected zero rect for bad child geometry, got %v", tree.Nodes[1].Bounds)
	}
}

func TestBuildTree_RoleResolution(t *testing.T) {
	tests := []struct {
		name            string
		node            string
		wantInteractive bool
		wantImageLike   bool
		wantHeading     int
	}{
		{
			name:            "clickable attribute",
			node:            `<node class="android.view.View" clickable="true" bounds="[0,0][10,10]"/>`,
			wantInteractive: true,
		},
		{
			name:            "focusable attribute",
			node:            `<node class="android.view.View" focusable="true" bounds="[0,0][10,10]"/>`,
			wantInteractive: true,
		},
		{
			name:            "long-clickable attribute",
			node:            `<node class="android.view.View" long-clickable="true" bounds="[0,0][10,10]"/>`,
			wantInteractive: true,
		},
		{
			name:            "Button class fragment",
			node:            `<node class="android.widget.ImageButton" bounds="[0,0][10,10]"/>`,
			wantInteractive: true,
			wantImageLike:   true,
		},
		{
			name:          "ImageView class",
			node:          `<node class="android.widget.ImageView" bounds="[0,0][10,10]"/>`,
			wantImageLike: true,
		},
		{
			name:          "Icon class fragment",
			node:          `<node class="com.app.StatusIcon" bounds="[0,0][10,10]"/>`,
			wantImageLike: true,
		},
		{
			name:        "explicit heading-level attribute",
			node:        `<node class="android.widget.TextView" heading-level="3" bounds="[0,0][10,10]"/>`,
			wantHeading: 3,
		},
		{
			name:        "heading-level out of range ignored",
			node:        `<node class="android.widget.TextView" heading-level="9" bounds="[0,0][10,10]"/>`,
			wantHeading: 0,
		},
		{
			name:        "heading attribute defaults to level 1",
			node:        `<node class="android.widget.TextView" heading="true" bounds="[0,0][10,10]"/>`,
			wantHeading: 1,
		},
		{
			name:        "heading attribute with class level",
			node:        `<node class="H2Label" heading="true" bounds="[0,0][10,10]"/>`,
			wantHeading: 2,
		},
		{
			name:        "hN in heading class name",
			node:        `<node class="com.app.H3Heading" bounds="[0,0][10,10]"/>`,
			wantHeading: 3,
		},
		{
			name:        "bare Title class is level 1",
			node:        `<node class="com.app.SectionTitle" bounds="[0,0][10,10]"/>`,
			wantHeading: 1,
		},
		{
			name:        "plain view is no heading",
			node:        `<node class="android.widget.TextView" bounds="[0,0][10,10]"/>`,
			wantHeading: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := `<hierarchy bounds="[0,0][100,100]">` + tt.node + `</hierarchy>`
			tree, err := BuildTree(layout)
			if err != nil {
				t.Fatalf("BuildTree failed: %v", err)
			}
			node := &tree.Nodes[1]
			if node.Interactive != tt.wantInteractive {
				t.Errorf("Interactive = %v, want %v", node.Interactive, tt.wantInteractive)
			}
			if node.ImageLike != tt.wantImageLike {
				t.Errorf("ImageLike = %v, want %v", node.ImageLike, tt.wantImageLike)
			}
			if node.HeadingLevel != tt.wantHeading {
				t.Errorf("HeadingLevel = %d, want %d", node.HeadingLevel, tt.wantHeading)
			}
		})
	}
}

func TestParseBoundsAttr(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.Bounds
		wantErr bool
	}{
		{raw: "[0,0][1080,1920]", want: models.Bounds{0, 0, 1080, 1920}},
		{raw: " [10,20][30,40] ", want: models.Bounds{10, 20, 30, 40}},
		{raw: "[10,20][5,40]", wantErr: true},
		{raw: "[10,20]", wantErr: true},
		{raw: "[a,b][c,d]", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseBoundsAttr(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBoundsAttr(%q): expected error, got %v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBoundsAttr(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseBoundsAttr(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
