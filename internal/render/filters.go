package render

import (
	"fmt"
	"strings"
)

// filterBuilder assembles an ffmpeg filter chain. Helpers that receive
// invalid arguments add nothing so chains stay composable.
type filterBuilder struct {
	filters []string
}

func newFilterBuilder() *filterBuilder {
	return &filterBuilder{}
}

func (fb *filterBuilder) fadeIn(duration float64) *filterBuilder {
	if duration <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fade=t=in:st=0:d=%.2f", duration))
	return fb
}

// drawBox draws a filled rectangle. Thickness "fill" fills the box.
func (fb *filterBuilder) drawBox(x, y, w, h int, color string, opacity float64) *filterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf(
		"drawbox=x=%d:y=%d:w=%d:h=%d:color=%s@%.2f:t=fill", x, y, w, h, color, opacity))
	return fb
}

// drawTextOpts carries the drawtext parameters the strategies use. Text is
// escaped here, centrally, never by callers.
type drawTextOpts struct {
	text     string
	x, y     string
	size     int
	color    string
	box      bool
	boxColor string
	// enableFrom shows the text only from this timestamp on, for
	// line-reveal pacing. Negative means always visible.
	enableFrom float64
	alphaExpr  string
}

func (fb *filterBuilder) drawText(o drawTextOpts) *filterBuilder {
	if strings.TrimSpace(o.text) == "" {
		return fb
	}
	parts := []string{
		"drawtext=text='" + EscapeText(o.text) + "'",
		"x=" + o.x,
		"y=" + o.y,
		fmt.Sprintf("fontsize=%d", o.size),
		"fontcolor=" + o.color,
	}
	if o.box {
		boxColor := o.boxColor
		if boxColor == "" {
			boxColor = "black@0.6"
		}
		parts = append(parts, "box=1", "boxcolor="+boxColor, "boxborderw=12")
	}
	if o.enableFrom > 0 {
		parts = append(parts, fmt.Sprintf("enable='gte(t\\,%.3f)'", o.enableFrom))
	}
	if o.alphaExpr != "" {
		parts = append(parts, "alpha='"+o.alphaExpr+"'")
	}
	fb.filters = append(fb.filters, strings.Join(parts, ":"))
	return fb
}

// zoomPan simulates continuous camera movement across the segment.
// zoompan consumes the upscaled frame so the crop never shows edges.
func (fb *filterBuilder) zoomPan(camera string, width, height, fps int, duration float64) *filterBuilder {
	cam := strings.ToLower(camera)
	frames := int(duration * float64(fps))
	if frames <= 0 {
		return fb
	}

	var zoomExpr, xExpr, yExpr string
	switch {
	case strings.Contains(cam, "zoom out"):
		zoomExpr = fmt.Sprintf("max(1.1-0.1*in/%d\\,1.0)", frames)
	case strings.Contains(cam, "zoom"), strings.Contains(cam, "push"):
		zoomExpr = fmt.Sprintf("min(1.0+0.1*in/%d\\,1.1)", frames)
	case strings.Contains(cam, "pan"):
		zoomExpr = "1.05"
	default:
		return fb
	}

	xExpr = "iw/2-(iw/zoom/2)"
	yExpr = "ih/2-(ih/zoom/2)"
	if strings.Contains(cam, "pan") {
		shift := fmt.Sprintf("(iw-iw/zoom)*in/%d", frames)
		if strings.Contains(cam, "left") {
			xExpr = "(iw-iw/zoom)-" + shift
		} else {
			xExpr = shift
		}
	}

	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d", width*2, height*2),
		fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=1:s=%dx%d:fps=%d",
			zoomExpr, xExpr, yExpr, width, height, fps),
	)
	return fb
}

func (fb *filterBuilder) build() string {
	return strings.Join(fb.filters, ",")
}
