package views

import (
	"errors"
	"fmt"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/rivo/tview"
)

// FormView renders a FormSpec. Saving runs the spec's Submit; validation
// errors stay on the form, anything else goes to onDone.
type FormView struct {
	*tview.Flex
	form    *tview.Form
	message *tview.TextView
	theme   *ui.Theme
	spec    FormSpec
	values  Values

	onDone   func(api.Request)
	onCancel func()
}

// NewFormView builds the widgets for spec.
func NewFormView(theme *ui.Theme, spec FormSpec) *FormView {
	fv := &FormView{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		form:    tview.NewForm(),
		message: tview.NewTextView().SetDynamicColors(true),
		theme:   theme,
		spec:    spec,
		values:  make(Values, len(spec.Fields)),
	}

	for _, f := range spec.Fields {
		key := f.Key
		fv.values[key] = f.Value
		switch f.Kind {
		case FieldChoice:
			initial := 0
			for i, o := range f.Options {
				if o == f.Value {
					initial = i
				}
			}
			fv.form.AddDropDown(f.Label, f.Options, initial, func(option string, _ int) {
				fv.values[key] = option
			})
		case FieldPassword:
			fv.form.AddPasswordField(f.Label, f.Value, 40, '*', func(text string) {
				fv.values[key] = text
			})
		default:
			fv.form.AddInputField(f.Label, f.Value, 40, nil, func(text string) {
				fv.values[key] = text
			})
		}
	}
	fv.form.AddButton("Save", fv.save)
	fv.form.AddButton("Cancel", fv.cancel)
	fv.form.SetCancelFunc(fv.cancel)

	fv.AddItem(fv.form, 0, 1, true)
	fv.AddItem(fv.message, 1, 0, false)
	fv.Render()
	return fv
}

// Name implements ui.Component.
func (fv *FormView) Name() string { return fv.spec.Name }

// Start implements ui.Component.
func (fv *FormView) Start() {}

// Stop implements ui.Component.
func (fv *FormView) Stop() {}

// Hints implements ui.Component.
func (fv *FormView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Render applies the current theme.
func (fv *FormView) Render() {
	styleBox(fv.form.Box, fv.theme, fv.spec.Title)
	fv.form.SetFieldBackgroundColor(fv.theme.FieldBgColor)
	fv.form.SetFieldTextColor(fv.theme.FgColor)
	fv.form.SetLabelColor(fv.theme.MenuKeyColor)
	fv.form.SetButtonBackgroundColor(fv.theme.BorderColor)
	fv.message.SetBackgroundColor(fv.theme.BgColor)
}

// SetOnDone sets the callback receiving the prepared request.
func (fv *FormView) SetOnDone(fn func(api.Request)) { fv.onDone = fn }

// SetOnCancel sets the callback for Esc or the Cancel button.
func (fv *FormView) SetOnCancel(fn func()) { fv.onCancel = fn }

// Values returns a copy of the current field values.
func (fv *FormView) Values() Values {
	out := make(Values, len(fv.values))
	for k, v := range fv.values {
		out[k] = v
	}
	return out
}

func (fv *FormView) save() {
	req, err := fv.spec.Submit(fv.Values())
	if err != nil {
		fv.showError(err)
		return
	}
	fv.message.Clear()
	if fv.onDone != nil {
		fv.onDone(req)
	}
}

func (fv *FormView) cancel() {
	if fv.onCancel != nil {
		fv.onCancel()
	}
}

func (fv *FormView) showError(err error) {
	fv.message.Clear()
	_, _ = fmt.Fprintf(fv.message, " %s%s[-]", ui.Tag(fv.theme.FlashErrColor), tview.Escape(err.Error()))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for i := 0; i < fv.form.GetFormItemCount(); i++ {
		if fv.form.GetFormItem(i).GetLabel() == ve.Field {
			fv.form.SetFocus(i)
			return
		}
	}
}
