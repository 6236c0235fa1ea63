package output

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/maxvaer/rake/internal/scanner"
)

// Band groups status codes for coloring.
type Band int

const (
	BandOther Band = iota
	BandInformational
	BandSuccess
	BandRedirect
	BandClientError
	BandServerError
)

// StatusBand classifies code into its hundred's band.
func StatusBand(code uint16) Band {
	switch {
	case code >= 100 && code < 200:
		return BandInformational
	case code >= 200 && code < 300:
		return BandSuccess
	case code >= 300 && code < 400:
		return BandRedirect
	case code >= 400 && code < 500:
		return BandClientError
	case code >= 500 && code < 600:
		return BandServerError
	default:
		return BandOther
	}
}

const lineFormat = "%s %s %s%s"

// Formatter renders result lines and the table header.
type Formatter struct {
	hideTime bool
	bands    map[Band]*color.Color
	zeroSize *color.Color
	size     *color.Color
	dim      *color.Color
}

// NewFormatter returns a formatter. noColor strips all escape codes;
// hideTime drops the TIME column.
func NewFormatter(noColor, hideTime bool) *Formatter {
	f := &Formatter{
		hideTime: hideTime,
		bands: map[Band]*color.Color{
			BandInformational: color.New(color.FgCyan),
			BandSuccess:       color.New(color.FgGreen),
			BandRedirect:      color.New(color.FgBlue),
			BandClientError:   color.New(color.FgYellow),
			BandServerError:   color.New(color.FgRed),
			BandOther:         color.New(color.FgWhite),
		},
		zeroSize: color.New(color.FgRed, color.Faint),
		size:     color.New(color.FgYellow, color.Faint),
		dim:      color.New(color.Faint),
	}
	for _, c := range f.colors() {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return f
}

func (f *Formatter) colors() []*color.Color {
	cs := []*color.Color{f.zeroSize, f.size, f.dim}
	for _, c := range f.bands {
		cs = append(cs, c)
	}
	return cs
}

// Header returns the column header line.
func (f *Formatter) Header() string {
	return f.dim.Sprint(fmt.Sprintf(lineFormat,
		fmt.Sprintf("%-6s", "STATUS"),
		fmt.Sprintf("%-8s", "SIZE"),
		f.timeColumn("TIME"),
		"URL",
	))
}

// Line renders one result. Columns are padded before coloring so escape
// codes do not break alignment.
func (f *Formatter) Line(resp *scanner.Response) string {
	status := fmt.Sprintf("%-6s", "("+strconv.Itoa(int(resp.StatusCode))+")")
	size := fmt.Sprintf("%-8d", resp.ContentLength)

	sizeColor := f.size
	if resp.ContentLength == 0 {
		sizeColor = f.zeroSize
	}

	timeCol := ""
	if !f.hideTime {
		timeCol = f.dim.Sprint(f.timeColumn(strconv.FormatInt(resp.Duration.Milliseconds(), 10) + "ms"))
	}

	return fmt.Sprintf(lineFormat,
		f.bands[StatusBand(resp.StatusCode)].Sprint(status),
		sizeColor.Sprint(size),
		timeCol,
		resp.URL,
	)
}

func (f *Formatter) timeColumn(s string) string {
	if f.hideTime {
		return ""
	}
	return fmt.Sprintf("%-7s ", s)
}
