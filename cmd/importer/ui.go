package main

import (
	"bytes"
	"image/color"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/spriteanimator/importer"
)

const panelWidth = 320

// Form holds the settings widgets of the import panel.
type Form struct {
	source   *widget.TextInput
	rows     *widget.TextInput
	cols     *widget.TextInput
	duration *widget.TextInput
	output   *widget.TextInput

	orderBtn    *widget.Button
	loopBtn     *widget.Button
	unscaledBtn *widget.Button
}

// BuildImporterUI lays out the settings panel on the left. onChange runs
// after any field edit with the updated settings; onSave runs on the save
// button.
func BuildImporterUI(settings *importer.Settings, onChange func(), onSave func()) (*ebitenui.UI, *Form) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newImporterTheme(&fontFace)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchVertical:    true,
			}),
		),
	)

	form := &Form{}
	form.source = addField(panel, &fontFace, "Sprite sheet", settings.Source, func(v string) {
		settings.Source = strings.TrimSpace(v)
		onChange()
	})
	form.rows = addField(panel, &fontFace, "Rows", strconv.Itoa(settings.Rows), func(v string) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			settings.Rows = n
			onChange()
		}
	})
	form.cols = addField(panel, &fontFace, "Columns", strconv.Itoa(settings.Cols), func(v string) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			settings.Cols = n
			onChange()
		}
	})
	form.duration = addField(panel, &fontFace, "Frame duration (s)", strconv.FormatFloat(settings.Duration, 'g', -1, 64), func(v string) {
		if d, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && d >= 0 {
			settings.Duration = d
			onChange()
		}
	})
	form.output = addField(panel, &fontFace, "Output asset", settings.Output, func(v string) {
		settings.Output = strings.TrimSpace(v)
		onChange()
	})

	form.orderBtn = addToggle(panel, &fontFace, orderLabel(settings.Order), func(b *widget.Button) {
		if settings.Order == importer.ColumnMajor.String() {
			settings.Order = importer.RowMajor.String()
		} else {
			settings.Order = importer.ColumnMajor.String()
		}
		b.Text().Label = orderLabel(settings.Order)
		onChange()
	})
	form.loopBtn = addToggle(panel, &fontFace, onOffLabel("Loop", settings.Loop), func(b *widget.Button) {
		settings.Loop = !settings.Loop
		b.Text().Label = onOffLabel("Loop", settings.Loop)
		onChange()
	})
	form.unscaledBtn = addToggle(panel, &fontFace, onOffLabel("Unscaled", settings.Unscaled), func(b *widget.Button) {
		settings.Unscaled = !settings.Unscaled
		b.Text().Label = onOffLabel("Unscaled", settings.Unscaled)
		onChange()
	})
	addToggle(panel, &fontFace, "Save", func(*widget.Button) { onSave() })

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	ui.Container = root
	return ui, form
}

func addField(parent *widget.Container, fontFace *text.Face, label, value string, onChange func(string)) *widget.TextInput {
	parent.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	))
	input := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(panelWidth-24, 28)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{Idle: color.Black, Disabled: color.Gray{Y: 120}, Caret: color.Black}),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			onChange(args.InputText)
		}),
	)
	input.SetText(value)
	parent.AddChild(input)
	return input
}

func addToggle(parent *widget.Container, fontFace *text.Face, label string, onClick func(*widget.Button)) *widget.Button {
	var btn *widget.Button
	btn = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
			Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
			Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
		}),
		widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{Idle: color.Black}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(panelWidth-24, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick(btn)
		}),
	)
	parent.AddChild(btn)
	return btn
}

func orderLabel(order string) string {
	if order == importer.ColumnMajor.String() {
		return "Order: column-major"
	}
	return "Order: row-major"
}

func onOffLabel(name string, on bool) string {
	if on {
		return name + ": On"
	}
	return name + ": Off"
}
