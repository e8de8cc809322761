package execute

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/ByteBallet/solara/ui"
)

// Symbols exposes the ui package to interpreted live-fence code. This is the
// only host surface fence code can reach besides the standard library.
var Symbols = interp.Exports{
	"github.com/ByteBallet/solara/ui/ui": {
		"Alert":            reflect.ValueOf(ui.Alert),
		"AppLayout":        reflect.ValueOf(ui.AppLayout),
		"Column":           reflect.ValueOf(ui.Column),
		"Details":          reflect.ValueOf(ui.Details),
		"HTML":             reflect.ValueOf(ui.HTML),
		"NewErrorBoundary": reflect.ValueOf(ui.NewErrorBoundary),
		"Preformatted":     reflect.ValueOf(ui.Preformatted),
		"Row":              reflect.ValueOf(ui.Row),
		"Text":             reflect.ValueOf(ui.Text),

		"Actor":     reflect.ValueOf((*ui.Actor)(nil)),
		"Component": reflect.ValueOf((*ui.Component)(nil)),
	},
}
