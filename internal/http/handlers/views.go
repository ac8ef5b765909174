package handlers

import (
	"math"

	"github.com/dustin/go-humanize"
	html "github.com/gofiber/template/html/v2"
)

// NewEngine loads the page templates and registers the view helpers.
func NewEngine(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("egp", FormatEGP)
	return engine
}

// FormatEGP renders an amount as "EGP 1,234" with at most two decimals and no
// trailing zeros.
func FormatEGP(v float64) string {
	if v < 0 {
		return "-EGP " + humanize.CommafWithDigits(math.Abs(v), 2)
	}
	return "EGP " + humanize.CommafWithDigits(v, 2)
}
