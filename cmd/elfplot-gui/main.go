// Package main provides the elfplot GUI viewer.
package main

import (
	"fmt"
	"image"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ZacharyZcR/elfplot/internal/elf"
	"github.com/ZacharyZcR/elfplot/internal/filter"
	"github.com/ZacharyZcR/elfplot/internal/render"
)

func main() {
	myApp := app.New()
	myWindow := myApp.NewWindow("elfplot - ELF layout viewer")
	myWindow.Resize(fyne.NewSize(1000, 750))

	// File path
	filePathEntry := widget.NewEntry()
	filePathEntry.SetPlaceHolder("choose an ELF file...")

	// Filter patterns
	patternEntry := widget.NewEntry()
	patternEntry.SetPlaceHolder(".text,/^\\.debug.*/ (empty shows everything)")
	stripCheck := widget.NewCheck("strip non-matching regions", nil)

	// Rendered image and legend
	imageBox := container.NewStack()
	legendBox := container.NewVBox()
	captionLabel := widget.NewLabel("")
	captionLabel.Wrapping = fyne.TextWrapWord

	// Status label
	statusLabel := widget.NewLabel("ready")

	// File picker button
	fileButton := widget.NewButton("choose file", func() {
		dialog.ShowFileOpen(func(file fyne.URIReadCloser, err error) {
			if err != nil || file == nil {
				return
			}
			defer func() { _ = file.Close() }()
			filePathEntry.SetText(file.URI().Path())
		}, myWindow)
	})

	// Render button
	renderButton := widget.NewButton("render", func() {
		if filePathEntry.Text == "" {
			dialog.ShowError(fmt.Errorf("choose an ELF file first"), myWindow)
			return
		}

		statusLabel.SetText("rendering...")
		go func() {
			img, legend, caption, err := renderFile(filePathEntry.Text, patternEntry.Text, stripCheck.Checked)
			if err != nil {
				dialog.ShowError(err, myWindow)
				statusLabel.SetText("render failed")
				return
			}

			view := canvas.NewImageFromImage(img)
			view.FillMode = canvas.ImageFillContain
			view.ScaleMode = canvas.ImageScalePixels
			imageBox.Objects = []fyne.CanvasObject{view}
			imageBox.Refresh()

			legendBox.Objects = nil
			for _, entry := range legend {
				swatch := canvas.NewRectangle(entry.Color)
				swatch.SetMinSize(fyne.NewSize(18, 18))
				legendBox.Objects = append(legendBox.Objects,
					container.NewHBox(swatch, widget.NewLabel(entry.Name)))
			}
			legendBox.Refresh()

			captionLabel.SetText(caption)
			statusLabel.SetText("done")
		}()
	})

	// Layout
	fileBox := container.NewBorder(nil, nil, nil, fileButton, filePathEntry)

	sideBox := container.NewVBox(
		widget.NewLabel("Legend:"),
		legendBox,
		widget.NewSeparator(),
		captionLabel,
	)

	mainContent := container.NewBorder(
		container.NewVBox(
			widget.NewLabel("ELF file path:"),
			fileBox,
			widget.NewLabel("Filter patterns (comma separated, /re/ for regex):"),
			container.NewBorder(nil, nil, nil, stripCheck, patternEntry),
			renderButton,
			widget.NewSeparator(),
		),
		container.NewVBox(
			widget.NewSeparator(),
			statusLabel,
		),
		nil,
		container.NewVScroll(sideBox),
		imageBox,
	)

	myWindow.SetContent(mainContent)
	myWindow.ShowAndRun()
}

func renderFile(path, patterns string, strip bool) (image.Image, []render.Legend, string, error) {
	spec := &filter.Spec{}
	if strings.TrimSpace(patterns) != "" {
		token := "+" + strings.TrimSpace(patterns)
		if strip {
			token = "+" + token
		}
		var err error
		spec, err = filter.ParseToken(token)
		if err != nil {
			return nil, nil, "", err
		}
	}

	reader, err := elf.Open(path)
	if err != nil {
		return nil, nil, "", err
	}

	analyzer := elf.NewAnalyzer(reader)
	info, err := analyzer.Analyze()
	if err != nil {
		return nil, nil, "", err
	}

	views := filter.Apply(info.Regions, spec)

	var names []string
	for _, v := range views {
		names = append(names, v.Region.Label.Canonical())
	}
	colors := render.Assign(names)

	img, legend := render.Compose(reader.Data(), views, colors)
	if img.Bounds().Empty() {
		return nil, nil, "", fmt.Errorf("nothing left to render after filtering")
	}

	caption := info.FilePath
	if info.Comment != "" {
		caption = fmt.Sprintf("%s – %s", info.FilePath, info.Comment)
	}
	return img, legend, caption, nil
}
