package presentation

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PreviewCanvas shows the correction field image, or a placeholder text until one is loaded.
type PreviewCanvas struct {
	widget.BaseWidget
	image       *canvas.Image
	placeholder *widget.Label
	imageMu     sync.RWMutex
	minSize     fyne.Size
}

// NewPreviewCanvas creates a preview area with the given placeholder text.
func NewPreviewCanvas(placeholder string, minSize fyne.Size) *PreviewCanvas {
	p := &PreviewCanvas{
		image:       canvas.NewImageFromImage(nil),
		placeholder: widget.NewLabel(placeholder),
		minSize:     minSize,
	}
	p.ExtendBaseWidget(p)
	p.image.FillMode = canvas.ImageFillContain
	p.image.SetMinSize(minSize)
	p.image.Hide()
	return p
}

// SetImage displays img. Nil restores the placeholder.
func (p *PreviewCanvas) SetImage(img image.Image) {
	p.imageMu.Lock()
	p.image.Image = img
	p.imageMu.Unlock()

	if img == nil {
		p.image.Hide()
		p.placeholder.Show()
	} else {
		p.placeholder.Hide()
		p.image.Show()
	}
	p.image.Refresh()
	p.Refresh()
}

// GetImage returns the displayed image, or nil.
func (p *PreviewCanvas) GetImage() image.Image {
	p.imageMu.RLock()
	defer p.imageMu.RUnlock()
	return p.image.Image
}

// HasImage reports whether an image is shown instead of the placeholder.
func (p *PreviewCanvas) HasImage() bool {
	return p.GetImage() != nil
}

// PlaceholderText returns the text shown while no image is loaded.
func (p *PreviewCanvas) PlaceholderText() string {
	return p.placeholder.Text
}

// CreateRenderer creates the widget renderer.
func (p *PreviewCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(p.placeholder, p.image))
}

// MinSize reserves room for the image even while the placeholder is shown.
func (p *PreviewCanvas) MinSize() fyne.Size {
	return p.minSize.Max(p.placeholder.MinSize())
}
