package presentation

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestPreviewCanvas_SetImage(t *testing.T) {
	test.NewTempApp(t)
	p := NewPreviewCanvas("field", fyne.NewSize(100, 80))

	if p.HasImage() {
		t.Error("new canvas should not have an image")
	}
	if p.PlaceholderText() != "field" {
		t.Errorf("PlaceholderText() = %q, want field", p.PlaceholderText())
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	p.SetImage(img)
	if !p.HasImage() || p.GetImage() != img {
		t.Error("SetImage should display the image")
	}
	if p.placeholder.Visible() {
		t.Error("placeholder should be hidden while an image is shown")
	}

	p.SetImage(nil)
	if p.HasImage() {
		t.Error("SetImage(nil) should clear the image")
	}
	if !p.placeholder.Visible() {
		t.Error("placeholder should be visible again")
	}
}

func TestPreviewCanvas_MinSize(t *testing.T) {
	test.NewTempApp(t)
	p := NewPreviewCanvas("field", fyne.NewSize(100, 80))

	size := p.MinSize()
	if size.Width < 100 || size.Height < 80 {
		t.Errorf("MinSize() = %v, want at least 100x80", size)
	}
}
