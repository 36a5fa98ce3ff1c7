//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

//
// GRAPHING
//

// RenderConfig - the parts of the drawing that come from the server configuration rather than the session
type RenderConfig struct {
	AssetsHost string
	Width      string
	Height     string
}

// Render - generate the html and js for the chart in v
func Render(v View, rc RenderConfig) (string, error) {
	// go-echarts is "too clever" and opaque about how to not do things its way
	// we override their page.Render() to yield html+js (see the CustomPageRender code below)
	// the web view swaps this into the element named by v.Surface

	// [a] acquire a charts.Line
	l := BuildLine(v, rc)
	l.Validate()

	// [b] we are building a page with only one chart and doing it by hand
	p := components.NewPage()
	p.Renderer = NewCustomPageRender(p, p.Validate)

	// [c] add assets to the page
	assets := l.GetAssets()
	for _, a := range assets.JSAssets.Values {
		p.JSAssets.Add(a)
	}

	// [d] add the chart to the page
	p.Charts = append(p.Charts, l)
	p.Validate()

	// [e] render the chart and get the html+js for it
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildLine - one series per dataset against a shared time axis
func BuildLine(v View, rc RenderConfig) *charts.Line {
	const (
		XTYPE   = "time"
		YTYPE   = "value"
		TRIGGER = "axis" // snaps to the nearest day without needing to touch the line
	)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       vv.MYNAME,
			Width:           rc.Width,
			Height:          rc.Height,
			ChartID:         v.Surface,
			AssetsHost:      rc.AssetsHost,
			BackgroundColor: v.Style.Background,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Trigger:   TRIGGER,
			Formatter: opts.FuncOpts(TOOLTIPJS),
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:        XTYPE,
			SplitNumber: v.Style.MaxXTicks,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: YTYPE,
			Name: vv.YAXISLABEL,
			Min:  0,
		}),
	)

	for _, ds := range v.Datasets {
		line.AddSeries(ds.Label, linedata(ds, v),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: ds.PointRadius > 0,
			}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: ds.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.Color}),
		)
	}

	line.AddJSFuncs(overlayjs(v))
	return line
}

// linedata - [date, y] pairs; the tooltip text rides along as the item name
func linedata(ds Dataset, v View) []opts.LineData {
	ld := make([]opts.LineData, len(ds.Points))
	for i, p := range ds.Points {
		ld[i] = opts.LineData{
			Name:       Tooltip(p),
			Value:      []interface{}{p.Date(v.Origin), p.Value},
			SymbolSize: 2 * ds.HoverRadius,
		}
	}
	return ld
}

// TOOLTIPJS - one block per series at the hovered day
// no backslashes or double quotes: this passes through json.Marshal; '<', '>' and '&' only inside string literals
const TOOLTIPJS = `function (params) {
	var esc = function (s) {
		return String(s).split('&').join('&amp;').split('<').join('&lt;').split('>').join('&gt;').split(String.fromCharCode(34)).join('&quot;');
	};
	var rows = [];
	params.forEach(function (p) {
		rows.push(p.marker + esc(p.seriesName) + ': ' + p.value[1]);
		if (p.name) {
			rows.push(esc(p.name).split(String.fromCharCode(10)).join('<br>'));
		}
	});
	return rows.join('<br>');
}`

// overlayjs - the style settings that opts.* in this version of go-echarts cannot express
func overlayjs(v View) string {
	const (
		SETOPT = "goecharts_%s.setOption(%s);"
	)

	st := v.Style
	axislabel := map[string]interface{}{"fontSize": st.TickFontSize, "color": st.FontColor}
	gridlines := map[string]interface{}{"show": true, "lineStyle": map[string]interface{}{"color": st.GridColor}}
	zeroline := map[string]interface{}{"show": true, "lineStyle": map[string]interface{}{"color": st.ZeroLineColor}}

	ov := map[string]interface{}{
		"textStyle": map[string]interface{}{"color": st.FontColor},
		"legend":    map[string]interface{}{"textStyle": map[string]interface{}{"color": st.FontColor}},
		"tooltip": map[string]interface{}{
			"backgroundColor": st.TooltipBackground,
			"borderWidth":     0,
			"textStyle":       map[string]interface{}{"color": st.TooltipText},
		},
		"xAxis": map[string]interface{}{
			"minInterval": vv.DAYMILLIS,
			"axisLabel":   axislabel,
			"splitLine":   gridlines,
			"axisLine":    zeroline,
		},
		"yAxis": map[string]interface{}{
			"minInterval":  1,
			"axisLabel":    axislabel,
			"splitLine":    gridlines,
			"axisLine":     zeroline,
			"nameLocation": "middle",
			"nameGap":      3 * st.AxisNameFontSize,
			"nameTextStyle": map[string]interface{}{
				"fontSize": st.AxisNameFontSize,
				"padding":  st.AxisNamePadding,
				"color":    st.FontColor,
			},
		},
	}

	// json.Marshal sorts map keys: the output is stable
	js, err := json.Marshal(ov)
	if err != nil {
		// nothing in ov can fail to marshal
		js = []byte("{}")
	}
	return fmt.Sprintf(SETOPT, jsident(v.Surface), js)
}

var notident = regexp.MustCompile(`[^A-Za-z0-9_]`)

// jsident - "my-chart" becomes "my_chart"; the element keeps its real id, only the script variables use this
func jsident(surface string) string {
	return notident.ReplaceAllString(surface, "_")
}

// scriptsafe - labels are arbitrary strings: "</script>" must not close the block it sits in
var scriptsafe = strings.NewReplacer(
	"<", `\u003c`,
	">", `\u003e`,
	"&", `\u0026`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

//
// OVERRIDE GO-ECHARTS [original code at https://github.com/go-echarts/go-echarts]
//

// ModRenderer etc modified from https://github.com/go-echarts/go-echarts/render/engine.go
type ModRenderer interface {
	Render(w io.Writer) error
}

type CustomPageRender struct {
	c      interface{}
	before []func()
}

// NewCustomPageRender returns a render implementation for Page.
func NewCustomPageRender(c interface{}, before ...func()) ModRenderer {
	return &CustomPageRender{c: c, before: before}
}

// Render renders the page into the given io.Writer.
func (r *CustomPageRender) Render(w io.Writer) error {
	const (
		TEMPLNAME = "chart"
		PATTERN   = `(__f__")|("__f__)|(__f__)`
	)

	for _, fn := range r.before {
		fn()
	}

	contents := []string{CustomBaseTpl, CustomPageTpl}
	tpl := ModMustTemplate(TEMPLNAME, contents)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, TEMPLNAME, r.c); err != nil {
		return err
	}

	pat := regexp.MustCompile(PATTERN)
	content := pat.ReplaceAll(buf.Bytes(), []byte(""))

	_, err := w.Write(content)
	return err
}

// ModMustTemplate creates a new template with the given name and parsed contents.
func ModMustTemplate(name string, contents []string) *template.Template {
	const (
		JSNAME   = "safeJS"
		JSONNAME = "safeJSON"
		IDNAME   = "jsident"
	)

	tpl := template.Must(template.New(name).Funcs(template.FuncMap{
		JSNAME: func(s interface{}) template.JS {
			return template.JS(fmt.Sprint(s))
		},
		// go-echarts marshals without html escaping; put it back
		JSONNAME: func(s interface{}) template.JS {
			return template.JS(scriptsafe.Replace(fmt.Sprint(s)))
		},
		IDNAME: func(s interface{}) template.JS {
			return template.JS(jsident(fmt.Sprint(s)))
		},
	}).Parse(contents[0]))

	for _, cont := range contents[1:] {
		tpl = template.Must(tpl.Parse(cont))
	}
	return tpl
}

// CustomBaseTpl etc. adapted from https://github.com/go-echarts/go-echarts/templates/
// the script is wrapped in a function so that the fragment can be swapped in again and again
var CustomBaseTpl = `
{{- define "base" }}
<div class="container">
    <div class="item" id="{{ .ChartID }}" style="width:{{ .Initialization.Width }};height:{{ .Initialization.Height }};"></div>
</div>
<script type="text/javascript">
(function () {
    "use strict";
    let goecharts_{{ .ChartID | jsident }} = echarts.init(document.getElementById('{{ .ChartID }}'), "{{ .Theme }}");
    let option_{{ .ChartID | jsident }} = {{ .JSONNotEscaped | safeJSON }};
    let action_{{ .ChartID | jsident }} = {{ .JSONNotEscapedAction | safeJSON }};
    goecharts_{{ .ChartID | jsident }}.setOption(option_{{ .ChartID | jsident }});
    goecharts_{{ .ChartID | jsident }}.dispatchAction(action_{{ .ChartID | jsident }});

    {{- range .JSFunctions.Fns }}
    {{ . | safeJS }}
    {{- end }}
})();
</script>
{{ end }}
`

var CustomPageTpl = `
{{- define "chart" }}
	{{- range .Charts }} {{ template "base" . }} {{- end }}
{{ end }}
`
